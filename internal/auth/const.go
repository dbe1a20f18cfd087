package auth

var (
	SessionKeyUserData           SessionKey = "user_data"
	SessionKeyAuthenticated      SessionKey = "authenticated"
	SessionKeyExpiresAt          SessionKey = "expires_at"
	SessionKeyRedirectAfterLogin SessionKey = "redirect_after_login"
	SessionKeyOauthState         SessionKey = "oauth_state"
	SessionKeyOauthNonce         SessionKey = "oauth_nonce"
	SessionKeyOauthCodeVerifier  SessionKey = "oauth_code_verifier"
	SessionKeyRenderFailed       SessionKey = "render_failed"
)
