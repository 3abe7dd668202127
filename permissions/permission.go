package permissions

import (
	_ "embed"
	"fmt"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"
)

//go:embed permissions.toml
var permissionsData []byte

type Permission struct {
	Roles  []string `toml:"roles"`
	Path   string   `toml:"path"`
	Method string   `toml:"method"`
	Skip   bool     `toml:"skip"`
}

// Allows reports whether role may call the endpoint. An empty allowlist
// admits every role.
func (p Permission) Allows(role string) bool {
	return len(p.Roles) == 0 || slices.Contains(p.Roles, role)
}

type PermissionData struct {
	Endpoints []Permission `toml:"endpoints"`
	Skip      bool         `toml:"skip"`
}

func (r *PermissionData) FindPermissions(path, method string) Permission {
	idx := slices.IndexFunc(r.Endpoints, func(rp Permission) bool {
		return rp.Path == path && rp.Method == method
	})

	if idx == -1 {
		return Permission{Path: path, Method: method}
	}

	return r.Endpoints[idx]
}

func Parse(data []byte) (*PermissionData, error) {
	var permissions PermissionData

	if _, err := toml.Decode(string(data), &permissions); err != nil {
		return nil, fmt.Errorf("failed to decode permissions: %w", err)
	}

	return &permissions, nil
}

func Get() *PermissionData {
	permissions, err := Parse(permissionsData)
	if err != nil {
		log.Err(err).Msg("Failed to decode embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("Successfully loaded embedded permissions")

	return permissions
}
