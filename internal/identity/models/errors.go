package models

// Provider error codes surfaced to clients.
const (
	CodeInvalidCredential = "auth/invalid-credential"
	CodeEmailInUse        = "auth/email-already-in-use"
)

var providerMessages = map[string]string{
	CodeInvalidCredential: "Invalid email or password.",
	CodeEmailInUse:        "This email address is already in use.",
}

// ProviderMessage maps a provider code to the message shown to the user.
// Codes without a mapping pass their raw message through.
func ProviderMessage(code, raw string) string {
	if msg, ok := providerMessages[code]; ok {
		return msg
	}
	return raw
}
