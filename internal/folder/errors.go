package folder

import "errors"

// Error variables for folder operations.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrDataDirEmpty       = errors.New("data_dir cannot be empty")
	ErrBatchSizeInvalid   = errors.New("batch_size must be positive")
	ErrListingCapInvalid  = errors.New("listing_cap must be positive")
	ErrFlagRequiresArg    = errors.New("flag requires an argument")
	ErrUnknownFlag        = errors.New("unknown flag")
	ErrPathRequired       = errors.New("folder path is required")
	ErrNotADirectory      = errors.New("not a directory")
	ErrFolderNotFound     = errors.New("folder not found")
	ErrLockTimeout        = errors.New("lock timeout")
	ErrLockFileOpen       = errors.New("failed to open lock file")
	ErrStaleResult        = errors.New("result is for a superseded request")
	ErrNoOpener           = errors.New("no opener found (set config.opener or install xdg-open)")
)
