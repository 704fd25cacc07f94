package backup

// Config holds local backup file settings.
type Config struct {
	// OutputDir is where exports are written and where restore looks for backups.
	OutputDir string `mapstructure:"output_dir" default:"output"`
}
