package auth

import "golang.org/x/oauth2/clientcredentials"

// Conf holds the client-credential settings for an outbound feed, such as
// the weather provider. It is embedded in the service config under the
// feed's own section.
type Conf struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	AuthURL      string `json:"auth_url"`
}

func (c *Conf) toOauth2Config() clientcredentials.Config {
	return clientcredentials.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		TokenURL:     c.AuthURL,
	}
}
