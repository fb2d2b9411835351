// FILE: chassis/choices.go
package chassis

// DatabaseEngine selects the relational backend a generated project uses.
type DatabaseEngine string

const (
	EnginePostgres DatabaseEngine = "postgres"
	EngineMySQL    DatabaseEngine = "mysql"
	EngineSQLite   DatabaseEngine = "sqlite"
)

// DatabaseEngines lists every supported engine value.
func DatabaseEngines() []string {
	return []string{string(EnginePostgres), string(EngineMySQL), string(EngineSQLite)}
}

// ParseDatabaseEngine maps a resolved string to its engine.
func ParseDatabaseEngine(s string) (DatabaseEngine, error) {
	switch e := DatabaseEngine(s); e {
	case EnginePostgres, EngineMySQL, EngineSQLite:
		return e, nil
	default:
		return "", &UnsupportedOptionError{Setting: "database engine", Value: s, Known: DatabaseEngines()}
	}
}

// StorageBackend selects where uploaded and collected files live.
type StorageBackend string

const (
	StorageFilesystem StorageBackend = "filesystem"
	StorageS3         StorageBackend = "s3"
)

// StorageBackends lists every supported storage value.
func StorageBackends() []string {
	return []string{string(StorageFilesystem), string(StorageS3)}
}

// ParseStorageBackend maps a resolved string to its backend.
func ParseStorageBackend(s string) (StorageBackend, error) {
	switch b := StorageBackend(s); b {
	case StorageFilesystem, StorageS3:
		return b, nil
	default:
		return "", &UnsupportedOptionError{Setting: "storage backend", Value: s, Known: StorageBackends()}
	}
}

// EmailBackend selects how outgoing mail is delivered.
type EmailBackend string

const (
	EmailConsole EmailBackend = "console"
	EmailSMTP    EmailBackend = "smtp"
)

// EmailBackends lists every supported email value.
func EmailBackends() []string {
	return []string{string(EmailConsole), string(EmailSMTP)}
}

// ParseEmailBackend maps a resolved string to its backend.
func ParseEmailBackend(s string) (EmailBackend, error) {
	switch b := EmailBackend(s); b {
	case EmailConsole, EmailSMTP:
		return b, nil
	default:
		return "", &UnsupportedOptionError{Setting: "email backend", Value: s, Known: EmailBackends()}
	}
}

// AssetPreset selects the CSS build flavor.
type AssetPreset string

const (
	PresetStandard AssetPreset = "standard"
	PresetMinimal  AssetPreset = "minimal"
)

// AssetPresets lists every supported preset value.
func AssetPresets() []string {
	return []string{string(PresetStandard), string(PresetMinimal)}
}

// ParseAssetPreset maps a resolved string to its preset.
func ParseAssetPreset(s string) (AssetPreset, error) {
	switch p := AssetPreset(s); p {
	case PresetStandard, PresetMinimal:
		return p, nil
	default:
		return "", &UnsupportedOptionError{Setting: "asset preset", Value: s, Known: AssetPresets()}
	}
}
