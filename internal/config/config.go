package config // package config loads application configuration from environment variables

import (
    "log"      // log is used to report configuration errors and halt execution
    "os"       // os provides access to environment variables
    "strconv"  // strconv converts strings to other types
    "time"     // time parses the booking window bounds
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The booking window bounds and the per-user
// booking cap are part of the configuration rather than compiled-in
// constants so that tests and future fair editions can supply their own.
type Config struct {
    Env                string    // application environment (e.g. "dev", "prod")
    Port               string    // HTTP port to listen on
    DBUser             string    // database username
    DBPass             string    // database password (optional)
    DBHost             string    // database host address
    DBPort             string    // database port number
    DBName             string    // database name
    JWTSecret          string    // secret used to sign JWTs
    AccessTTLMin       int       // access token time‑to‑live in minutes
    RefreshTTLDays     int       // refresh token time‑to‑live in days
    BcryptCost         int       // bcrypt cost for password hashing
    BookingWindowStart time.Time // earliest admissible booking instant (inclusive)
    BookingWindowEnd   time.Time // latest admissible booking instant (inclusive)
    MaxBookingsPerUser int       // booking cap for non-admin users, counted per kind
    AllowAdminSignup   bool      // whether /auth/register may grant the ADMIN role
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
    return Config{
        Env:                must("APP_ENV"),              // environment (dev/test/prod)
        Port:               must("APP_PORT"),             // port to bind the HTTP server
        DBUser:             must("DB_USER"),              // database user
        DBPass:             os.Getenv("DB_PASS"),         // database password (empty allowed)
        DBHost:             must("DB_HOST"),              // database host
        DBPort:             must("DB_PORT"),              // database port
        DBName:             must("DB_NAME"),              // database name
        JWTSecret:          must("JWT_SECRET"),           // secret used for signing JWTs
        AccessTTLMin:       mustInt("ACCESS_TOKEN_TTL_MIN"),   // TTL for access tokens in minutes
        RefreshTTLDays:     mustInt("REFRESH_TOKEN_TTL_DAYS"), // TTL for refresh tokens in days
        BcryptCost:         mustInt("BCRYPT_COST"),       // bcrypt cost factor
        BookingWindowStart: timeOr("BOOKING_WINDOW_START", "2022-05-10T00:00:00Z"),
        BookingWindowEnd:   timeOr("BOOKING_WINDOW_END", "2022-05-13T23:59:59Z"),
        MaxBookingsPerUser: intOr("MAX_BOOKINGS_PER_USER", 3),
        AllowAdminSignup:   os.Getenv("ALLOW_ADMIN_SIGNUP") == "true",
    }
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}

// timeOr reads an RFC3339 instant from the environment, falling back to the
// given default when the variable is unset.  A value that is set but does
// not parse is a fatal configuration error: silently ignoring it would let
// the service run with a window the operator did not intend.
func timeOr(key, def string) time.Time {
    s := os.Getenv(key)
    if s == "" {
        s = def
    }
    t, err := time.Parse(time.RFC3339, s)
    if err != nil {
        log.Fatalf("invalid RFC3339 time for %s: %q", key, s)
    }
    return t.UTC()
}

// intOr reads an integer from the environment with a default.  Like timeOr,
// a malformed value is fatal rather than silently replaced.
func intOr(key string, def int) int {
    s := os.Getenv(key)
    if s == "" {
        return def
    }
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}
