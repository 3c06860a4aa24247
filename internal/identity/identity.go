// Package identity supplies the current session's user: id, display name
// and calendar color. The profile lives in a YAML file next to the state
// dir; a first run generates one. The booking store consumes the identity
// only at create time.
package identity

import (
	"fmt"
	"os"
	"path/filepath"

	"hytta/pkg/logger"
	"hytta/pkg/model"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

type profileFile struct {
	ID          string `yaml:"id"`
	DisplayName string `yaml:"display_name"`
	Color       string `yaml:"color"`
}

// Load reads the profile at path, generating and saving a fresh one when
// the file does not exist yet. A malformed profile file is an error rather
// than silently replaced; the user may have hand-edited it.
func Load(path string, log *logger.Logger) (model.Owner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return generate(path, log)
		}
		return model.Owner{}, fmt.Errorf("failed to read profile %s: %w", path, err)
	}

	var pf profileFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return model.Owner{}, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	if pf.ID == "" {
		return model.Owner{}, fmt.Errorf("profile %s is missing an id", path)
	}
	if pf.Color == "" {
		pf.Color = model.DefaultOwnerColor
	}

	log.Info("Profile loaded", "id", pf.ID, "display_name", pf.DisplayName)
	return model.Owner{
		ID:          pf.ID,
		DisplayName: pf.DisplayName,
		Color:       pf.Color,
	}, nil
}

func generate(path string, log *logger.Logger) (model.Owner, error) {
	owner := model.Owner{
		ID:    uuid.NewString(),
		Color: model.DefaultOwnerColor,
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return model.Owner{}, fmt.Errorf("failed to create profile dir: %w", err)
	}

	data, err := yaml.Marshal(profileFile{
		ID:          owner.ID,
		DisplayName: owner.DisplayName,
		Color:       owner.Color,
	})
	if err != nil {
		return model.Owner{}, fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return model.Owner{}, fmt.Errorf("failed to write profile %s: %w", path, err)
	}

	log.Info("Generated new profile", "id", owner.ID, "path", path)
	return owner, nil
}
