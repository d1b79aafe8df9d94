package catalog

const (
	// DefaultEndpoint is the YGOPRODeck card database
	DefaultEndpoint = "https://db.ygoprodeck.com/api/v7/cardinfo.php"

	// DefaultUserAgent is sent when Options.UserAgent is empty
	DefaultUserAgent = "cardfetch/1.0"
)
