package engine

import (
	"encoding/json"
	"strings"
)

// Source discriminates evidence items by the profile section they came from.
type Source string

const (
	SourceProjects     Source = "projects"
	SourceExperience   Source = "experience"
	SourceSkills       Source = "skills"
	SourceEducation    Source = "education"
	SourceCertificates Source = "certificates"
	SourceContact      Source = "contact"
	SourceSystem       Source = "system"
)

// Evidence is a closed union over the profile sections. Order in an evidence
// list carries meaning once the psychology overlay has ranked it.
type Evidence interface {
	Source() Source

	// searchText serializes the item for word matching against questions.
	// Unexported to keep the union closed.
	searchText() string
}

// ProjectEvidence backs an answer with one project record.
type ProjectEvidence struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Domain      string   `json:"domain"`
	TechStack   []string `json:"tech_stack"`
	KeyFeatures []string `json:"key_features,omitempty"`
}

func (ProjectEvidence) Source() Source { return SourceProjects }

func (e ProjectEvidence) searchText() string {
	return joinLower(e.ID, e.Title, e.Domain, strings.Join(e.TechStack, " "))
}

func (e ProjectEvidence) MarshalJSON() ([]byte, error) {
	type alias ProjectEvidence
	return json.Marshal(struct {
		SourceTag Source `json:"source"`
		alias
	}{SourceProjects, alias(e)})
}

// ExperienceEvidence backs an answer with one work-history record.
type ExperienceEvidence struct {
	Role     string `json:"role"`
	Company  string `json:"company"`
	Duration string `json:"duration"`
}

func (ExperienceEvidence) Source() Source { return SourceExperience }

func (e ExperienceEvidence) searchText() string {
	return joinLower(e.Role, e.Company, e.Duration)
}

func (e ExperienceEvidence) MarshalJSON() ([]byte, error) {
	type alias ExperienceEvidence
	return json.Marshal(struct {
		SourceTag Source `json:"source"`
		alias
	}{SourceExperience, alias(e)})
}

// SkillsEvidence is the single aggregate skills item.
type SkillsEvidence struct {
	Backend   []string            `json:"backend"`
	Frontend  []string            `json:"frontend"`
	Languages map[string][]string `json:"languages"`
	Matched   []string            `json:"matched,omitempty"`
}

func (SkillsEvidence) Source() Source { return SourceSkills }

func (e SkillsEvidence) searchText() string {
	parts := []string{strings.Join(e.Backend, " "), strings.Join(e.Frontend, " "), strings.Join(e.Matched, " ")}
	for _, group := range e.Languages {
		parts = append(parts, strings.Join(group, " "))
	}
	return joinLower(parts...)
}

func (e SkillsEvidence) MarshalJSON() ([]byte, error) {
	type alias SkillsEvidence
	return json.Marshal(struct {
		SourceTag Source `json:"source"`
		alias
	}{SourceSkills, alias(e)})
}

// EducationEvidence backs an answer with one education record.
type EducationEvidence struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Duration    string `json:"duration"`
}

func (EducationEvidence) Source() Source { return SourceEducation }

func (e EducationEvidence) searchText() string {
	return joinLower(e.Degree, e.Institution, e.Duration)
}

func (e EducationEvidence) MarshalJSON() ([]byte, error) {
	type alias EducationEvidence
	return json.Marshal(struct {
		SourceTag Source `json:"source"`
		alias
	}{SourceEducation, alias(e)})
}

// CertificateEvidence backs an answer with one certification record.
type CertificateEvidence struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Year   string `json:"year"`
}

func (CertificateEvidence) Source() Source { return SourceCertificates }

func (e CertificateEvidence) searchText() string {
	return joinLower(e.Name, e.Issuer, e.Year)
}

func (e CertificateEvidence) MarshalJSON() ([]byte, error) {
	type alias CertificateEvidence
	return json.Marshal(struct {
		SourceTag Source `json:"source"`
		alias
	}{SourceCertificates, alias(e)})
}

// ContactEvidence backs an answer with the contact channels.
type ContactEvidence struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
}

func (ContactEvidence) Source() Source { return SourceContact }

func (e ContactEvidence) searchText() string {
	return joinLower(e.Email, e.LinkedIn, e.GitHub)
}

func (e ContactEvidence) MarshalJSON() ([]byte, error) {
	type alias ContactEvidence
	return json.Marshal(struct {
		SourceTag Source `json:"source"`
		alias
	}{SourceContact, alias(e)})
}

// SystemNote marks synthetic evidence on the fallback path.
type SystemNote struct {
	Note string `json:"note"`
}

func (SystemNote) Source() Source { return SourceSystem }

func (e SystemNote) searchText() string { return strings.ToLower(e.Note) }

func (e SystemNote) MarshalJSON() ([]byte, error) {
	type alias SystemNote
	return json.Marshal(struct {
		SourceTag Source `json:"source"`
		alias
	}{SourceSystem, alias(e)})
}

func joinLower(parts ...string) string {
	return strings.ToLower(strings.Join(parts, " "))
}
