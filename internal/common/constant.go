package common

// AccessTokenHeaderName is the HTTP header used to carry the access token
// on requests to the document service.
const AccessTokenHeaderName = "Authorization"

// Well-known keys in the client's durable key-value store. The snapshot
// keys are deliberately distinct from the mode key so a corrupted snapshot
// can never take the mode setting down with it.
const (
	KVKeyMode       = "mode"
	KVKeyDocuments  = "documents"
	KVKeyCategories = "categories"
	KVKeyOwnerID    = "owner_id"
	KVKeyUsername   = "username"
	KVKeyToken      = "access_token"
)
