package config

const (
	defaultInvestigationsDir    = "investigations"
	defaultScriptsDir           = "scripts"
	defaultLogDir               = "logs"
	defaultScriptTimeoutSeconds = 7200
	defaultKillGraceSeconds     = 5
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultLogRetentionDays     = 60
	defaultLockCases            = true

	// RootEnvVar overrides paths.root_dir when the config leaves it empty.
	RootEnvVar = "CASEWORK_ROOT"
)

// Default returns a Config populated with repository defaults. Paths are
// resolved during Load; callers building configs by hand should set RootDir.
func Default() Config {
	return Config{
		Paths: Paths{
			InvestigationsDir: defaultInvestigationsDir,
			ScriptsDir:        defaultScriptsDir,
			LogDir:            defaultLogDir,
		},
		Runner: Runner{
			ScriptTimeoutSeconds: defaultScriptTimeoutSeconds,
			KillGraceSeconds:     defaultKillGraceSeconds,
			Interpreters:         defaultInterpreters(),
		},
		Workflow: Workflow{
			LockCases: defaultLockCases,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}

func defaultInterpreters() map[string]string {
	return map[string]string{
		".py": "python3",
	}
}
