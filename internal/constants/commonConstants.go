package constants

type CachePrefix string

const (
	CachePrefixPublicStats  CachePrefix = "STATS_PUBLIC"
	CachePrefixRevokedToken CachePrefix = "REVOKED_TOKEN_"
)

const (
	// TokenCookieName is read when no Authorization header is sent.
	TokenCookieName = "token"

	// SearchResultLimit caps free-text disaster search.
	SearchResultLimit = 50
	// SearchCandidateLimit bounds how many rows are scored in memory.
	SearchCandidateLimit = 500
)
