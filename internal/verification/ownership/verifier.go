// Package ownership proves control of a claimed external handle without an
// OAuth handshake: the subject plants a short-lived challenge code in one of
// three public artifacts they alone control, and the verifier looks for it.
package ownership

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"mentorgate/internal/github"
	"mentorgate/internal/verification/models"
)

// ArtifactClient is the subset of the GitHub client the verifier reads.
type ArtifactClient interface {
	User(ctx context.Context, handle string) (*github.User, error)
	Repository(ctx context.Context, owner, repo string) (*github.Repository, error)
	RepositoryContents(ctx context.Context, owner, repo string) ([]github.ContentEntry, error)
	Gists(ctx context.Context, handle string) ([]github.Gist, error)
	RawContent(ctx context.Context, url string) (string, error)
}

// Verifier checks the three ownership proof channels.
type Verifier struct {
	client         ArtifactClient
	proofRepo      string
	channelTimeout time.Duration
	logger         *slog.Logger
}

// Option configures the Verifier.
type Option func(*Verifier)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Verifier) { v.logger = logger }
}

// WithChannelTimeout bounds each channel check independently.
func WithChannelTimeout(d time.Duration) Option {
	return func(v *Verifier) {
		if d > 0 {
			v.channelTimeout = d
		}
	}
}

// New creates an ownership verifier. proofRepo is the fixed, well-known
// repository name checked on the repository channel.
func New(client ArtifactClient, proofRepo string, opts ...Option) *Verifier {
	v := &Verifier{
		client:         client,
		proofRepo:      proofRepo,
		channelTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify runs the three channel checks concurrently and reports each channel's
// outcome. It never short-circuits: all three results come back for
// transparency, and a fetch error on any channel degrades to a non-match for
// that channel rather than failing the attempt. Zero matches is a legitimate
// "not yet proven" outcome, not an error.
func (v *Verifier) Verify(ctx context.Context, handle, code string) models.OwnershipProof {
	var channels models.ChannelMatches

	// Channel failures are absorbed, so the group never carries an error;
	// it is used purely as a join point. Each goroutine writes to its own
	// field of channels.
	g := &errgroup.Group{}
	g.Go(func() error {
		channels.Bio = v.checkBio(ctx, handle, code)
		return nil
	})
	g.Go(func() error {
		channels.RepoFile = v.checkRepoFile(ctx, handle, code)
		return nil
	})
	g.Go(func() error {
		channels.Gist = v.checkGist(ctx, handle, code)
		return nil
	})
	_ = g.Wait()

	return models.OwnershipProof{
		Verified: channels.Bio || channels.RepoFile || channels.Gist,
		Channels: channels,
	}
}

// checkBio looks for the code as a substring of the profile biography.
func (v *Verifier) checkBio(ctx context.Context, handle, code string) bool {
	ctx, cancel := context.WithTimeout(ctx, v.channelTimeout)
	defer cancel()

	user, err := v.client.User(ctx, handle)
	if err != nil {
		v.debug(ctx, "bio channel fetch failed", handle, err)
		return false
	}
	return strings.Contains(user.Bio, code)
}

// checkRepoFile looks for the code in any root-level file of the well-known
// proof repository, provided the repository is owned by the exact claimed
// handle. Ownership is a case-insensitive exact match on the owner login,
// and forks never match: forking someone else's proof repository is not
// evidence of controlling the handle.
func (v *Verifier) checkRepoFile(ctx context.Context, handle, code string) bool {
	ctx, cancel := context.WithTimeout(ctx, v.channelTimeout)
	defer cancel()

	repo, err := v.client.Repository(ctx, handle, v.proofRepo)
	if err != nil {
		v.debug(ctx, "repo channel fetch failed", handle, err)
		return false
	}
	if repo.Fork || !strings.EqualFold(repo.Owner.Login, handle) {
		return false
	}

	entries, err := v.client.RepositoryContents(ctx, handle, v.proofRepo)
	if err != nil {
		v.debug(ctx, "repo contents listing failed", handle, err)
		return false
	}

	for _, entry := range entries {
		if entry.Type != "file" || entry.DownloadURL == "" {
			continue
		}
		content, err := v.client.RawContent(ctx, entry.DownloadURL)
		if err != nil {
			v.debug(ctx, "repo file fetch failed", handle, err)
			continue
		}
		if strings.Contains(content, code) {
			return true
		}
	}
	return false
}

// checkGist looks for the code in any file of any public gist owned by the
// exact claimed handle.
func (v *Verifier) checkGist(ctx context.Context, handle, code string) bool {
	ctx, cancel := context.WithTimeout(ctx, v.channelTimeout)
	defer cancel()

	gists, err := v.client.Gists(ctx, handle)
	if err != nil {
		v.debug(ctx, "gist channel fetch failed", handle, err)
		return false
	}

	for _, gist := range gists {
		if !strings.EqualFold(gist.Owner.Login, handle) {
			continue
		}
		for _, file := range gist.Files {
			content := file.Content
			if content == "" && file.RawURL != "" {
				fetched, err := v.client.RawContent(ctx, file.RawURL)
				if err != nil {
					v.debug(ctx, "gist file fetch failed", handle, err)
					continue
				}
				content = fetched
			}
			if strings.Contains(content, code) {
				return true
			}
		}
	}
	return false
}

func (v *Verifier) debug(ctx context.Context, msg, handle string, err error) {
	if v.logger != nil {
		v.logger.DebugContext(ctx, msg, "handle", handle, "error", err)
	}
}
