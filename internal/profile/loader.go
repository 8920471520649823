package profile

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
)

// Load reads every profile content file from dir into a Snapshot. Files are
// loaded in parallel; the first failure aborts the load.
func Load(dir string) (*Snapshot, error) {
	snap := &Snapshot{}

	var g errgroup.Group

	g.Go(func() error {
		raw, err := os.ReadFile(filepath.Join(dir, "about.md"))
		if err != nil {
			return eris.Wrap(err, "profile: read about.md")
		}
		snap.About = string(raw)
		return nil
	})
	g.Go(func() error { return loadJSON(dir, "skills.json", &snap.Skills) })
	g.Go(func() error { return loadJSON(dir, "projects.json", &snap.Projects) })
	g.Go(func() error { return loadJSON(dir, "experience.json", &snap.Experience) })
	g.Go(func() error { return loadJSON(dir, "education.json", &snap.Education) })
	g.Go(func() error { return loadJSON(dir, "certificates.json", &snap.Certificates) })
	g.Go(func() error { return loadJSON(dir, "contact.json", &snap.Contact) })

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

func loadJSON(dir, name string, out any) error {
	raw, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return eris.Wrapf(err, "profile: read %s", name)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return eris.Wrapf(err, "profile: parse %s", name)
	}
	return nil
}
