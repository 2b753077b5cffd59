package utils

// Ptr returns a pointer to v, so the address of a literal can be passed to
// optional request fields without a named temporary:
//
//	request.MaxTokens = utils.Ptr(512)
func Ptr[T any](v T) *T {
	return &v
}
