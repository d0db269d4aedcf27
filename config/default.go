package config

// DefaultConfigYAML is the embedded default configuration. Any field can be
// overridden by an external config file or MYFINANCES_* environment variables.
var DefaultConfigYAML = []byte(`server:
  port: ":8080"
  mode: "debug"
  base_url: "http://localhost:8080"

database:
  host: "localhost"
  port: "3306"
  username: "myfinances"
  password: "myfinances"
  dbname: "myfinances"
  charset: "utf8mb4"

jwt:
  secret: "change-me-in-production"
  expire_hours: 72

email:
  enabled: false
  host: "smtp.example.com"
  port: 587
  username: ""
  password: ""
  from: "MyFinances <no-reply@example.com>"

pricing:
  finnhub_key: ""
  twelvedata_key: ""
  timeout_seconds: 10
`)
