package cache

// Keyer generates cache keys.
type Keyer interface {
	// DocumentKey identifies the raw document fetched from a source URI.
	DocumentKey(uri string) string

	// HTTPKey identifies a raw HTTP response body.
	HTTPKey(namespace, key string) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DocumentKey hashes the URI so credentials in connection strings never
// appear in key names.
func (DefaultKeyer) DocumentKey(uri string) string {
	return hashKey("doc", uri)
}

// HTTPKey keeps the namespace and key readable.
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}
