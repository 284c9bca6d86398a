// internal/platform/factory.go
package platform

// Credentials holds delivery credentials for all supported platforms.
type Credentials struct {
	LinkedInToken  string
	TwitterToken   string
	FacebookToken  string
	FacebookPageID string
	SendGridAPIKey string
	EmailFrom      string
	EmailTo        string
}

// Platforms a repurposed bundle can be distributed to.
var SupportedPlatforms = []string{"linkedin", "twitter", "facebook", "instagram", "email"}

// BuildClients assembles the delivery clients. In demo mode every platform
// gets a simulated client. Otherwise only platforms with credentials are
// wired; Instagram posting has no public content API, so it stays simulated
// in every mode.
func BuildClients(demoMode bool, creds Credentials) map[string]Client {
	clients := make(map[string]Client)

	if demoMode {
		for _, name := range SupportedPlatforms {
			clients[name] = NewDemoClient(name)
		}
		return clients
	}

	if creds.LinkedInToken != "" {
		clients["linkedin"] = NewLinkedInClient(creds.LinkedInToken)
	}
	if creds.TwitterToken != "" {
		clients["twitter"] = NewTwitterClient(creds.TwitterToken)
	}
	if creds.FacebookToken != "" && creds.FacebookPageID != "" {
		clients["facebook"] = NewFacebookClient(creds.FacebookToken, creds.FacebookPageID)
	}
	if creds.SendGridAPIKey != "" && creds.EmailFrom != "" && creds.EmailTo != "" {
		clients["email"] = NewEmailClient(creds.SendGridAPIKey, creds.EmailFrom, creds.EmailTo)
	}
	clients["instagram"] = NewDemoClient("instagram")

	return clients
}
