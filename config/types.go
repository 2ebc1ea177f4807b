package config

type Config struct {
	Debug   bool    `mapstructure:"debug"`
	Server  Server  `mapstructure:"server"`
	Uploads Uploads `mapstructure:"uploads"`
	Storage Storage `mapstructure:"storage"`
	Logging Logging `mapstructure:"logging"`
}

type Server struct {
	Address       string       `mapstructure:"address" validate:"required,hostname|ip"`
	Port          int          `mapstructure:"port" validate:"required,min=1,max=65535"`
	PublicUrl     string       `mapstructure:"public_url" validate:"required,url"`
	AdminPassword string       `mapstructure:"admin_password" validate:"required"`
	CorsOrigins   []string     `mapstructure:"cors_origins"`
	Limits        ServerLimits `mapstructure:"limits"`
}

type ServerLimits struct {
	MaxFileSize     uint `mapstructure:"max_file_size" validate:"required"`
	MaxMultipartMem uint `mapstructure:"max_multipart_mem" validate:"required"`
	MaxPayloadSize  uint `mapstructure:"max_payload_size" validate:"required"`
}

type Uploads struct {
	// StrictSlots rejects slot indices outside a category's registered set.
	StrictSlots bool `mapstructure:"strict_slots"`
}

type Storage struct {
	Backend string                `mapstructure:"backend" validate:"required,oneof=local remote noop"`
	Local   *LocalStorageBackend  `mapstructure:"local" validate:"required_if=Backend local"`
	Remote  *RemoteStorageBackend `mapstructure:"remote" validate:"required_if=Backend remote"`
}

type LocalStorageBackend struct {
	PublicDir string `mapstructure:"public_dir" validate:"required"`
	AssetsDir string `mapstructure:"assets_dir" validate:"required,localpath"`
	LegacyDir string `mapstructure:"legacy_dir" validate:"required,localpath"`
}

// RemoteStorageBackend credentials are intentionally not required here: a missing
// credential is reported per request instead of refusing to boot.
type RemoteStorageBackend struct {
	Account    string `mapstructure:"account"`
	AccessKey  string `mapstructure:"access_key"`
	SecretKey  string `mapstructure:"secret_key"`
	Endpoint   string `mapstructure:"endpoint"`
	Region     string `mapstructure:"region"`
	PublicUrl  string `mapstructure:"public_url" validate:"omitempty,url"`
	KeyPattern string `mapstructure:"key_pattern" validate:"required,pathpattern"`
	DisableSSL bool   `mapstructure:"disable_ssl"`
}

type Logging struct {
	Level  string `mapstructure:"level" validate:"required,oneof=trace debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=console json"`
}

// Credential names as they appear in the process environment.
const (
	EnvRemoteAccount   = "SAFARI_REMOTE_ACCOUNT"
	EnvRemoteAccessKey = "SAFARI_REMOTE_ACCESS_KEY"
	EnvRemoteSecretKey = "SAFARI_REMOTE_SECRET_KEY"
	EnvAdminPassword   = "SAFARI_ADMIN_PASSWORD"
	EnvPublicUrl       = "SAFARI_PUBLIC_URL"
)

// CredentialPresence reports, per environment variable name, whether the
// remote backend credential resolved to a non-empty value.
func (r *RemoteStorageBackend) CredentialPresence() map[string]bool {
	if r == nil {
		r = &RemoteStorageBackend{}
	}

	return map[string]bool{
		EnvRemoteAccount:   r.Account != "",
		EnvRemoteAccessKey: r.AccessKey != "",
		EnvRemoteSecretKey: r.SecretKey != "",
	}
}

// Configured reports whether all three remote credentials are present.
func (r *RemoteStorageBackend) Configured() bool {
	for _, ok := range r.CredentialPresence() {
		if !ok {
			return false
		}
	}

	return true
}
