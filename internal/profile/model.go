// Package profile loads the static professional profile consumed by the
// answer engine. Content is read once into an immutable snapshot.
package profile

// Project is a single portfolio project record.
type Project struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Domain      string   `json:"domain"`
	Description string   `json:"description"`
	KeyFeatures []string `json:"key_features"`
	TechStack   []string `json:"tech_stack"`
	Status      string   `json:"status"`
}

// SkillSet groups the profile's skills by area.
type SkillSet struct {
	ProgrammingLanguages map[string][]string `json:"programming_languages"`
	Databases            map[string][]string `json:"databases"`
	Backend              []string            `json:"backend"`
	Frontend             []string            `json:"frontend"`
	Concepts             []string            `json:"concepts"`
	ToolsPlatforms       []string            `json:"tools_platforms"`
	LanguagesSpoken      []string            `json:"languages_spoken"`
}

// Experience is a single work-history record.
type Experience struct {
	Role             string   `json:"role"`
	Company          string   `json:"company"`
	Location         string   `json:"location"`
	Duration         string   `json:"duration"`
	Responsibilities []string `json:"responsibilities"`
}

// Education is a single education record.
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Duration    string `json:"duration"`
}

// Certificate is a single certification record.
type Certificate struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Year   string `json:"year"`
}

// Contact holds the profile's contact channels.
type Contact struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
}

// Snapshot is the full profile loaded into memory. It is treated as read-only
// after Load returns; the pipeline never mutates it.
type Snapshot struct {
	About        string
	Skills       SkillSet
	Projects     []Project
	Experience   []Experience
	Education    []Education
	Certificates []Certificate
	Contact      Contact
}
