// FILE: chassis/settings.go
package chassis

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"
)

// Settings is the fully resolved configuration profile for a generated
// project: every stock field coerced, choice values parsed into their typed
// forms, and the four component lists assembled. Build it once at startup;
// the value is immutable afterward.
type Settings struct {
	Debug        bool
	SecretKey    string
	AllowedHosts []string
	TimeZone     string

	AuthEnabled  bool
	AdminEnabled bool

	Server   ServerSettings
	Database DatabaseSettings
	Storage  StorageSettings
	Email    EmailSettings
	Assets   AssetSettings

	Apps              []string
	Middleware        []string
	ContextProcessors []string
	Finders           []string
}

// ServerSettings configures the development server wrapper.
type ServerSettings struct {
	Host           string
	Port           int64
	RequestTimeout time.Duration
}

// Addr returns the host:port the server binds to.
func (s ServerSettings) Addr() string {
	return net.JoinHostPort(s.Host, strconv.FormatInt(s.Port, 10))
}

// DatabaseSettings configures the relational backend.
type DatabaseSettings struct {
	Engine   DatabaseEngine
	Name     string
	Host     string
	Port     int64
	User     string
	Password string
}

// DSN returns the connection string for the configured engine.
func (d DatabaseSettings) DSN() (string, error) {
	switch d.Engine {
	case EnginePostgres:
		u := url.URL{
			Scheme: "postgres",
			Host:   net.JoinHostPort(d.Host, strconv.FormatInt(d.Port, 10)),
			Path:   "/" + d.Name,
		}
		if d.User != "" {
			u.User = url.UserPassword(d.User, d.Password)
		}
		return u.String(), nil
	case EngineMySQL:
		auth := ""
		if d.User != "" {
			auth = d.User + ":" + d.Password + "@"
		}
		return fmt.Sprintf("%stcp(%s)/%s", auth, net.JoinHostPort(d.Host, strconv.FormatInt(d.Port, 10)), d.Name), nil
	case EngineSQLite:
		return "file:" + d.Name, nil
	default:
		return "", &UnsupportedOptionError{Setting: "database engine", Value: string(d.Engine), Known: DatabaseEngines()}
	}
}

// StorageSettings configures file storage locations.
type StorageSettings struct {
	Backend    StorageBackend
	MediaRoot  string
	StaticRoot string
}

// ServesLocalFiles reports whether the configured backend reads from the
// local filesystem.
func (s StorageSettings) ServesLocalFiles() (bool, error) {
	switch s.Backend {
	case StorageFilesystem:
		return true, nil
	case StorageS3:
		return false, nil
	default:
		return false, &UnsupportedOptionError{Setting: "storage backend", Value: string(s.Backend), Known: StorageBackends()}
	}
}

// EmailSettings configures outgoing mail.
type EmailSettings struct {
	Backend EmailBackend
	Host    string
	Port    int64
}

// Addr returns the SMTP dial address, or "" for backends that never dial.
func (e EmailSettings) Addr() (string, error) {
	switch e.Backend {
	case EmailConsole:
		return "", nil
	case EmailSMTP:
		return net.JoinHostPort(e.Host, strconv.FormatInt(e.Port, 10)), nil
	default:
		return "", &UnsupportedOptionError{Setting: "email backend", Value: string(e.Backend), Known: EmailBackends()}
	}
}

// AssetSettings configures the CSS toolchain.
type AssetSettings struct {
	Preset   AssetPreset
	ToolPath string
	Input    string
	Output   string
}

// BuildArgs returns the tool arguments for a one-shot build under the
// configured preset.
func (a AssetSettings) BuildArgs() ([]string, error) {
	switch a.Preset {
	case PresetStandard:
		return []string{"-i", a.Input, "-o", a.Output, "--minify"}, nil
	case PresetMinimal:
		return []string{"-i", a.Input, "-o", a.Output}, nil
	default:
		return nil, &UnsupportedOptionError{Setting: "asset preset", Value: string(a.Preset), Known: AssetPresets()}
	}
}

// WatchArgs returns the tool arguments for watch mode.
func (a AssetSettings) WatchArgs() ([]string, error) {
	args, err := a.BuildArgs()
	if err != nil {
		return nil, err
	}
	return append(args, "--watch"), nil
}

// BuildSettings resolves every stock field against the given sources and
// assembles the component lists. Any coercion or choice failure aborts the
// build; errors are never masked by falling back to defaults.
func BuildSettings(src Sources) (*Settings, error) {
	debug, err := src.Bool(fieldDebug())
	if err != nil {
		return nil, err
	}
	secretKey, err := src.String(fieldSecretKey())
	if err != nil {
		return nil, err
	}
	allowedHosts, err := src.List(fieldAllowedHosts())
	if err != nil {
		return nil, err
	}
	timeZone, err := src.String(fieldTimeZone())
	if err != nil {
		return nil, err
	}

	authOn, err := src.Bool(fieldFeatureAuth())
	if err != nil {
		return nil, err
	}
	adminOn, err := src.Bool(fieldFeatureAdmin())
	if err != nil {
		return nil, err
	}

	server, err := buildServerSettings(src)
	if err != nil {
		return nil, err
	}
	database, err := buildDatabaseSettings(src)
	if err != nil {
		return nil, err
	}
	storage, err := buildStorageSettings(src)
	if err != nil {
		return nil, err
	}
	email, err := buildEmailSettings(src)
	if err != nil {
		return nil, err
	}
	assets, err := buildAssetSettings(src)
	if err != nil {
		return nil, err
	}

	active := ActiveFeatures(debug, authOn, adminOn)

	apps, err := assembleList(src, fieldAppsRemove(), fieldAppsExtend(),
		BaselineApps(), AppRequirements(), active)
	if err != nil {
		return nil, err
	}
	middleware, err := assembleList(src, fieldMiddlewareRemove(), fieldMiddlewareExtend(),
		BaselineMiddleware(), MiddlewareRequirements(), active)
	if err != nil {
		return nil, err
	}
	processors, err := assembleList(src, fieldProcessorsRemove(), fieldProcessorsExtend(),
		BaselineContextProcessors(), ContextProcessorRequirements(), active)
	if err != nil {
		return nil, err
	}
	finders, err := assembleList(src, fieldFindersRemove(), fieldFindersExtend(),
		BaselineFinders(), FinderRequirements(), active)
	if err != nil {
		return nil, err
	}

	return &Settings{
		Debug:             debug,
		SecretKey:         secretKey,
		AllowedHosts:      allowedHosts,
		TimeZone:          timeZone,
		AuthEnabled:       authOn,
		AdminEnabled:      adminOn,
		Server:            server,
		Database:          database,
		Storage:           storage,
		Email:             email,
		Assets:            assets,
		Apps:              apps,
		Middleware:        middleware,
		ContextProcessors: processors,
		Finders:           finders,
	}, nil
}

// assembleList resolves a list's remove and extend fields and runs the
// assembler over its baseline.
func assembleList(src Sources, removeField, extendField Field, baseline []string, requiredBy map[string][]string, active map[string]bool) ([]string, error) {
	remove, err := src.List(removeField)
	if err != nil {
		return nil, err
	}
	extend, err := src.List(extendField)
	if err != nil {
		return nil, err
	}
	a := Assembly{
		Baseline:   baseline,
		RequiredBy: requiredBy,
		Remove:     remove,
		Extend:     extend,
		Active:     active,
	}
	return a.Result(), nil
}

func buildServerSettings(src Sources) (ServerSettings, error) {
	host, err := src.String(fieldServerHost())
	if err != nil {
		return ServerSettings{}, err
	}
	port, err := src.Int(fieldServerPort())
	if err != nil {
		return ServerSettings{}, err
	}
	timeoutSec, err := src.Int(fieldServerRequestTimeout())
	if err != nil {
		return ServerSettings{}, err
	}
	return ServerSettings{
		Host:           host,
		Port:           port,
		RequestTimeout: time.Duration(timeoutSec) * time.Second,
	}, nil
}

func buildDatabaseSettings(src Sources) (DatabaseSettings, error) {
	engineValue, err := src.String(fieldDatabaseEngine())
	if err != nil {
		return DatabaseSettings{}, err
	}
	engine, err := ParseDatabaseEngine(engineValue)
	if err != nil {
		return DatabaseSettings{}, err
	}
	name, err := src.String(fieldDatabaseName())
	if err != nil {
		return DatabaseSettings{}, err
	}
	host, err := src.String(fieldDatabaseHost())
	if err != nil {
		return DatabaseSettings{}, err
	}
	port, err := src.Int(fieldDatabasePort())
	if err != nil {
		return DatabaseSettings{}, err
	}
	user, err := src.String(fieldDatabaseUser())
	if err != nil {
		return DatabaseSettings{}, err
	}
	password, err := src.String(fieldDatabasePassword())
	if err != nil {
		return DatabaseSettings{}, err
	}
	return DatabaseSettings{
		Engine:   engine,
		Name:     name,
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
	}, nil
}

func buildStorageSettings(src Sources) (StorageSettings, error) {
	backendValue, err := src.String(fieldStorageBackend())
	if err != nil {
		return StorageSettings{}, err
	}
	backend, err := ParseStorageBackend(backendValue)
	if err != nil {
		return StorageSettings{}, err
	}
	mediaRoot, err := src.Path(fieldMediaRoot())
	if err != nil {
		return StorageSettings{}, err
	}
	staticRoot, err := src.Path(fieldStaticRoot())
	if err != nil {
		return StorageSettings{}, err
	}
	return StorageSettings{
		Backend:    backend,
		MediaRoot:  mediaRoot,
		StaticRoot: staticRoot,
	}, nil
}

func buildEmailSettings(src Sources) (EmailSettings, error) {
	backendValue, err := src.String(fieldEmailBackend())
	if err != nil {
		return EmailSettings{}, err
	}
	backend, err := ParseEmailBackend(backendValue)
	if err != nil {
		return EmailSettings{}, err
	}
	host, err := src.String(fieldEmailHost())
	if err != nil {
		return EmailSettings{}, err
	}
	port, err := src.Int(fieldEmailPort())
	if err != nil {
		return EmailSettings{}, err
	}
	return EmailSettings{
		Backend: backend,
		Host:    host,
		Port:    port,
	}, nil
}

func buildAssetSettings(src Sources) (AssetSettings, error) {
	presetValue, err := src.String(fieldAssetPreset())
	if err != nil {
		return AssetSettings{}, err
	}
	preset, err := ParseAssetPreset(presetValue)
	if err != nil {
		return AssetSettings{}, err
	}
	toolPath, err := src.Path(fieldAssetToolPath())
	if err != nil {
		return AssetSettings{}, err
	}
	input, err := src.Path(fieldAssetInput())
	if err != nil {
		return AssetSettings{}, err
	}
	output, err := src.Path(fieldAssetOutput())
	if err != nil {
		return AssetSettings{}, err
	}
	return AssetSettings{
		Preset:   preset,
		ToolPath: toolPath,
		Input:    input,
		Output:   output,
	}, nil
}
