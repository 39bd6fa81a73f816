package ingestion

import "fmt"

const (
	ResourceMetadata = "metadata"
	ResourceProducts = "products"
)

// ValidationError representa una URL faltante o mal formada
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// SourceError indica que la tienda de origen no respondió bien
type SourceError struct {
	Resource string
	Err      error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Resource, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// UserMessage es el texto que se muestra al cliente, distinto por recurso
func (e *SourceError) UserMessage() string {
	if e.Resource == ResourceMetadata {
		return "could not fetch store metadata, check that it is a valid Shopify store"
	}
	return "could not fetch store products"
}
