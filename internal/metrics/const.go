package metrics

const Namespace = "secure_auth_app"

const (
	LoginResultSuccess = "success"
	LoginResultFailure = "failure"
)
