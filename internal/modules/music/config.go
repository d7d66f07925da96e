package music

// Config holds the music module configuration.
type Config struct {
	LavalinkAddress  string `env:"LAVALINK_ADDRESS,notEmpty"`
	LavalinkPassword string `env:"LAVALINK_PASSWORD,notEmpty"`
	LavalinkSecure   bool   `env:"LAVALINK_SECURE" envDefault:"false"`

	// DefaultSearch is the Lavalink search source used for plain-text
	// queries, e.g. "ytsearch" or "scsearch".
	DefaultSearch string `env:"DEFAULT_SEARCH" envDefault:"ytsearch"`

	CommandPrefix string `env:"COMMAND_PREFIX" envDefault:"!"`
	EnablePrefix  bool   `env:"ENABLE_PREFIX" envDefault:"true"`

	InviteURL        string `env:"INVITE_URL"`
	SupportServerURL string `env:"SUPPORT_SERVER_URL" envDefault:"https://discord.gg/example"`
	GitHubURL        string `env:"GITHUB_URL"`
}
