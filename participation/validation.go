package participation

import (
	"strings"

	"github.com/programme-lv/participation/evidence"
)

type SubmitParams struct {
	Files     []evidence.RawArtifact
	Name      string
	Email     string
	ClassDate string
}

// missingParams lists absent fields in a fixed order. A field holding only
// whitespace counts as absent.
func (p SubmitParams) missingParams() []string {
	var missing []string
	if len(p.Files) == 0 {
		missing = append(missing, "files")
	}
	if strings.TrimSpace(p.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(p.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(p.ClassDate) == "" {
		missing = append(missing, "classDate")
	}
	return missing
}

func (p SubmitParams) validate() error {
	if missing := p.missingParams(); len(missing) > 0 {
		return newErrMissingParameters(missing)
	}
	return nil
}
