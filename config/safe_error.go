package config

// SafeErrorMessage returns the real error text only outside release mode.
// In release mode the fallback is returned so internal details (SQL, file
// paths) never reach the client.
func SafeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if GlobalConfig != nil && GlobalConfig.Server.Mode == "release" {
		return fallback
	}
	return err.Error()
}
