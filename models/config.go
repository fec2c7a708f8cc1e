package models

// CommandsConfig mirrors the "commands" block of config.yaml.
type CommandsConfig struct {
	Auth AuthConfig `json:"auth" mapstructure:"auth"`
}

// AuthConfig lists who may administer repost rules besides members holding
// the Manage Server permission.
type AuthConfig struct {
	Developers  []string `json:"developers" mapstructure:"developers"`
	AdminsRoles []string `json:"adminsRoles" mapstructure:"adminsRoles"`
}
