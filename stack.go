// FILE: chassis/stack.go
package chassis

// Feature names consulted by the stock requirement maps.
const (
	FeatureDebug = "debug"
	FeatureAuth  = "auth"
	FeatureAdmin = "admin"
)

// BaselineApps returns the stock ordered application list.
func BaselineApps() []string {
	return []string{
		"admin",
		"auth",
		"contenttypes",
		"sessions",
		"messages",
		"staticfiles",
	}
}

// AppRequirements maps features to the applications that exist only to serve
// them.
func AppRequirements() map[string][]string {
	return map[string][]string{
		FeatureAuth:  {"auth", "sessions"},
		FeatureAdmin: {"admin"},
	}
}

// BaselineMiddleware returns the stock ordered middleware chain. Ordering is
// an operational constraint: request identification precedes logging, the
// recoverer wraps everything after it, and the dev-only cache suppressor
// stays last.
func BaselineMiddleware() []string {
	return []string{
		"request_id",
		"real_ip",
		"logger",
		"recoverer",
		"security_headers",
		"compress",
		"timeout",
		"no_cache",
	}
}

// MiddlewareRequirements maps features to the middleware steps that exist
// only to serve them.
func MiddlewareRequirements() map[string][]string {
	return map[string][]string{
		FeatureDebug: {"no_cache"},
	}
}

// BaselineContextProcessors returns the stock template context processors.
func BaselineContextProcessors() []string {
	return []string{
		"debug",
		"request",
		"auth",
		"messages",
	}
}

// ContextProcessorRequirements maps features to the context processors that
// exist only to serve them.
func ContextProcessorRequirements() map[string][]string {
	return map[string][]string{
		FeatureDebug: {"debug"},
		FeatureAuth:  {"auth"},
	}
}

// BaselineFinders returns the stock static-file finders.
func BaselineFinders() []string {
	return []string{
		"filesystem",
		"app_directories",
	}
}

// FinderRequirements maps features to the finders that exist only to serve
// them. The stock finders have no feature dependencies.
func FinderRequirements() map[string][]string {
	return map[string][]string{}
}

// ActiveFeatures derives the feature set consulted by the requirement maps.
func ActiveFeatures(debug, auth, admin bool) map[string]bool {
	return map[string]bool{
		FeatureDebug: debug,
		FeatureAuth:  auth,
		FeatureAdmin: admin,
	}
}

// DefaultGroups returns the stock group definitions in registration order.
func DefaultGroups() []Group {
	return []Group{
		coreGroup(),
		featuresGroup(),
		appsGroup(),
		middlewareGroup(),
		contextProcessorsGroup(),
		findersGroup(),
		serverGroup(),
		databaseGroup(),
		storageGroup(),
		emailGroup(),
		assetsGroup(),
	}
}

// DefaultRegistry builds the registry of stock groups. It is called once at
// startup; group definitions themselves carry no registration side effects.
func DefaultRegistry() (*Registry, error) {
	return NewRegistry(DefaultGroups()...)
}

func coreGroup() Group {
	return NewGroup("core",
		fieldDebug(),
		fieldSecretKey(),
		fieldAllowedHosts(),
		fieldTimeZone(),
	)
}

func fieldDebug() Field {
	return Bool("debug",
		WithEnv("DEBUG"),
		WithKey("core.debug"),
		WithDefault(false),
		WithDoc("Enable development mode"))
}

func fieldSecretKey() Field {
	return String("secret_key",
		WithEnv("SECRET_KEY"),
		WithKey("core.secret_key"),
		WithDoc("Signing key for sessions and tokens"))
}

func fieldAllowedHosts() Field {
	return List("allowed_hosts",
		WithEnv("ALLOWED_HOSTS"),
		WithKey("core.allowed_hosts"),
		WithDefault("localhost,127.0.0.1"),
		WithDoc("Host names the application may serve"))
}

func fieldTimeZone() Field {
	return String("time_zone",
		WithEnv("TIME_ZONE"),
		WithKey("core.time_zone"),
		WithDefault("UTC"),
		WithDoc("Canonical time zone name"))
}

func featuresGroup() Group {
	return NewGroup("features",
		fieldFeatureAuth(),
		fieldFeatureAdmin(),
	)
}

func fieldFeatureAuth() Field {
	return Bool("auth",
		WithEnv("FEATURE_AUTH"),
		WithKey("features.auth"),
		WithDefault(true),
		WithDoc("Enable the authentication feature"))
}

func fieldFeatureAdmin() Field {
	return Bool("admin",
		WithEnv("FEATURE_ADMIN"),
		WithKey("features.admin"),
		WithDefault(true),
		WithDoc("Enable the admin feature"))
}

func appsGroup() Group {
	return NewGroup("apps",
		fieldAppsRemove(),
		fieldAppsExtend(),
	)
}

func fieldAppsRemove() Field {
	return List("remove",
		WithEnv("APPS_REMOVE"),
		WithKey("apps.remove"),
		WithDoc("Applications to exclude from the baseline"))
}

func fieldAppsExtend() Field {
	return List("extend",
		WithEnv("APPS_EXTEND"),
		WithKey("apps.extend"),
		WithDoc("Additional applications, ordered first"))
}

func middlewareGroup() Group {
	return NewGroup("middleware",
		fieldMiddlewareRemove(),
		fieldMiddlewareExtend(),
	)
}

func fieldMiddlewareRemove() Field {
	return List("remove",
		WithEnv("MIDDLEWARE_REMOVE"),
		WithKey("middleware.remove"),
		WithDoc("Middleware steps to exclude from the baseline"))
}

func fieldMiddlewareExtend() Field {
	return List("extend",
		WithEnv("MIDDLEWARE_EXTEND"),
		WithKey("middleware.extend"),
		WithDoc("Additional middleware steps, ordered first"))
}

func contextProcessorsGroup() Group {
	return NewGroup("context_processors",
		fieldProcessorsRemove(),
		fieldProcessorsExtend(),
	)
}

func fieldProcessorsRemove() Field {
	return List("remove",
		WithEnv("CONTEXT_PROCESSORS_REMOVE"),
		WithKey("context_processors.remove"),
		WithDoc("Context processors to exclude from the baseline"))
}

func fieldProcessorsExtend() Field {
	return List("extend",
		WithEnv("CONTEXT_PROCESSORS_EXTEND"),
		WithKey("context_processors.extend"),
		WithDoc("Additional context processors, ordered first"))
}

func findersGroup() Group {
	return NewGroup("finders",
		fieldFindersRemove(),
		fieldFindersExtend(),
	)
}

func fieldFindersRemove() Field {
	return List("remove",
		WithEnv("FINDERS_REMOVE"),
		WithKey("finders.remove"),
		WithDoc("Static-file finders to exclude from the baseline"))
}

func fieldFindersExtend() Field {
	return List("extend",
		WithEnv("FINDERS_EXTEND"),
		WithKey("finders.extend"),
		WithDoc("Additional static-file finders, ordered first"))
}

func serverGroup() Group {
	return NewGroup("server",
		fieldServerHost(),
		fieldServerPort(),
		fieldServerRequestTimeout(),
	)
}

func fieldServerHost() Field {
	return String("host",
		WithEnv("SERVER_HOST"),
		WithKey("server.host"),
		WithDefault("127.0.0.1"),
		WithDoc("Development server bind address"))
}

func fieldServerPort() Field {
	return Int("port",
		WithEnv("SERVER_PORT"),
		WithKey("server.port"),
		WithDefault(8000),
		WithDoc("Development server port"))
}

func fieldServerRequestTimeout() Field {
	return Int("request_timeout",
		WithEnv("SERVER_REQUEST_TIMEOUT"),
		WithKey("server.request_timeout"),
		WithDefault(60),
		WithDoc("Per-request timeout in seconds"))
}

func databaseGroup() Group {
	return NewGroup("database",
		fieldDatabaseEngine(),
		fieldDatabaseName(),
		fieldDatabaseHost(),
		fieldDatabasePort(),
		fieldDatabaseUser(),
		fieldDatabasePassword(),
	)
}

func fieldDatabaseEngine() Field {
	return String("engine",
		WithEnv("DATABASE_ENGINE"),
		WithKey("database.engine"),
		WithDefault(string(EngineSQLite)),
		WithChoices(DatabaseEngines()...),
		WithDoc("Relational database backend"))
}

func fieldDatabaseName() Field {
	return String("name",
		WithEnv("DATABASE_NAME"),
		WithKey("database.name"),
		WithDefault("app.db"),
		WithDoc("Database name, or file name for sqlite"))
}

func fieldDatabaseHost() Field {
	return String("host",
		WithEnv("DATABASE_HOST"),
		WithKey("database.host"),
		WithDefault("localhost"),
		WithDoc("Database server host"))
}

func fieldDatabasePort() Field {
	return Int("port",
		WithEnv("DATABASE_PORT"),
		WithKey("database.port"),
		WithDefault(5432),
		WithDoc("Database server port"))
}

func fieldDatabaseUser() Field {
	return String("user",
		WithEnv("DATABASE_USER"),
		WithKey("database.user"),
		WithDoc("Database user name"))
}

func fieldDatabasePassword() Field {
	return String("password",
		WithEnv("DATABASE_PASSWORD"),
		WithKey("database.password"),
		WithDoc("Database password"))
}

func storageGroup() Group {
	return NewGroup("storage",
		fieldStorageBackend(),
		fieldMediaRoot(),
		fieldStaticRoot(),
	)
}

func fieldStorageBackend() Field {
	return String("backend",
		WithEnv("STORAGE_BACKEND"),
		WithKey("storage.backend"),
		WithDefault(string(StorageFilesystem)),
		WithChoices(StorageBackends()...),
		WithDoc("File storage backend"))
}

func fieldMediaRoot() Field {
	return Path("media_root",
		WithEnv("MEDIA_ROOT"),
		WithKey("storage.media_root"),
		WithDefault("media"),
		WithDoc("Directory for uploaded files"))
}

func fieldStaticRoot() Field {
	return Path("static_root",
		WithEnv("STATIC_ROOT"),
		WithKey("storage.static_root"),
		WithDefault("static"),
		WithDoc("Directory for collected static files"))
}

func emailGroup() Group {
	return NewGroup("email",
		fieldEmailBackend(),
		fieldEmailHost(),
		fieldEmailPort(),
	)
}

func fieldEmailBackend() Field {
	return String("backend",
		WithEnv("EMAIL_BACKEND"),
		WithKey("email.backend"),
		WithDefault(string(EmailConsole)),
		WithChoices(EmailBackends()...),
		WithDoc("Outgoing mail backend"))
}

func fieldEmailHost() Field {
	return String("host",
		WithEnv("EMAIL_HOST"),
		WithKey("email.host"),
		WithDefault("localhost"),
		WithDoc("SMTP server host"))
}

func fieldEmailPort() Field {
	return Int("port",
		WithEnv("EMAIL_PORT"),
		WithKey("email.port"),
		WithDefault(25),
		WithDoc("SMTP server port"))
}

func assetsGroup() Group {
	return NewGroup("assets",
		fieldAssetPreset(),
		fieldAssetToolPath(),
		fieldAssetInput(),
		fieldAssetOutput(),
	)
}

func fieldAssetPreset() Field {
	return String("preset",
		WithEnv("ASSETS_PRESET"),
		WithKey("assets.preset"),
		WithDefault(string(PresetStandard)),
		WithChoices(AssetPresets()...),
		WithDoc("CSS build preset"))
}

func fieldAssetToolPath() Field {
	return Path("tool_path",
		WithEnv("ASSETS_TOOL_PATH"),
		WithKey("assets.tool_path"),
		WithDoc("Explicit path to the CSS tool binary, otherwise PATH is searched"))
}

func fieldAssetInput() Field {
	return Path("input",
		WithEnv("ASSETS_INPUT"),
		WithKey("assets.input"),
		WithDefault("assets/css/input.css"),
		WithDoc("CSS entry point"))
}

func fieldAssetOutput() Field {
	return Path("output",
		WithEnv("ASSETS_OUTPUT"),
		WithKey("assets.output"),
		WithDefault("static/css/output.css"),
		WithDoc("Compiled CSS destination"))
}
