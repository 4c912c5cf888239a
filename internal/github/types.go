package github

// Wire types for the subset of the GitHub REST and GraphQL APIs the
// verification pipeline reads. Only the fields we consume are mapped.

// User is a public user profile.
type User struct {
	Login       string `json:"login"`
	Bio         string `json:"bio"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
	CreatedAt   string `json:"created_at"` // RFC 3339
}

// Repository is a repository as returned by the repos endpoint.
type Repository struct {
	Name  string `json:"name"`
	Fork  bool   `json:"fork"`
	Owner struct {
		Login string `json:"login"`
	} `json:"owner"`
}

// ContentEntry is one entry of a repository contents listing.
type ContentEntry struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // "file" or "dir"
	DownloadURL string `json:"download_url"`
}

// GistFile is one file inside a gist.
type GistFile struct {
	Filename string `json:"filename"`
	RawURL   string `json:"raw_url"`
	Content  string `json:"content"` // populated on single-gist fetches, empty in listings
}

// Gist is a public gist from a user's gist listing.
type Gist struct {
	ID    string              `json:"id"`
	Owner struct {
		Login string `json:"login"`
	} `json:"owner"`
	Files map[string]GistFile `json:"files"`
}

// graphQLRequest is the envelope for GraphQL queries.
type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// contributionsResponse maps the contributions GraphQL query result.
type contributionsResponse struct {
	Data struct {
		User struct {
			ContributionsCollection struct {
				ContributionCalendar struct {
					TotalContributions int `json:"totalContributions"`
				} `json:"contributionCalendar"`
			} `json:"contributionsCollection"`
		} `json:"user"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}
