package ownership

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"mentorgate/internal/github"
	"mentorgate/internal/sentinel"
)

// fakeArtifactClient serves canned artifacts per handle.
type fakeArtifactClient struct {
	user     *github.User
	userErr  error
	repo     *github.Repository
	repoErr  error
	entries  []github.ContentEntry
	gists    []github.Gist
	gistsErr error
	raw      map[string]string
}

func (f *fakeArtifactClient) User(context.Context, string) (*github.User, error) {
	return f.user, f.userErr
}

func (f *fakeArtifactClient) Repository(context.Context, string, string) (*github.Repository, error) {
	return f.repo, f.repoErr
}

func (f *fakeArtifactClient) RepositoryContents(context.Context, string, string) ([]github.ContentEntry, error) {
	return f.entries, nil
}

func (f *fakeArtifactClient) Gists(context.Context, string) ([]github.Gist, error) {
	return f.gists, f.gistsErr
}

func (f *fakeArtifactClient) RawContent(_ context.Context, url string) (string, error) {
	content, ok := f.raw[url]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	return content, nil
}

type VerifierSuite struct {
	suite.Suite
}

func TestVerifierSuite(t *testing.T) {
	suite.Run(t, new(VerifierSuite))
}

func ownedRepo(owner string) *github.Repository {
	r := &github.Repository{Name: "mentor-verification"}
	r.Owner.Login = owner
	return r
}

func ownedGist(owner string, files map[string]github.GistFile) github.Gist {
	g := github.Gist{ID: "g1", Files: files}
	g.Owner.Login = owner
	return g
}

func (s *VerifierSuite) TestGistOnlyMatch() {
	client := &fakeArtifactClient{
		user:    &github.User{Login: "octocat", Bio: "just a cat"},
		repoErr: sentinel.ErrNotFound,
		gists: []github.Gist{
			ownedGist("octocat", map[string]github.GistFile{
				"proof.txt": {Filename: "proof.txt", Content: "my code is abcd1234"},
			}),
		},
	}
	v := New(client, "mentor-verification")

	proof := v.Verify(context.Background(), "octocat", "abcd1234")
	s.True(proof.Verified)
	s.False(proof.Channels.Bio)
	s.False(proof.Channels.RepoFile)
	s.True(proof.Channels.Gist)
}

func (s *VerifierSuite) TestBioMatch() {
	client := &fakeArtifactClient{
		user:    &github.User{Login: "octocat", Bio: "verifying: abcd1234"},
		repoErr: sentinel.ErrNotFound,
	}
	v := New(client, "mentor-verification")

	proof := v.Verify(context.Background(), "octocat", "abcd1234")
	s.True(proof.Verified)
	s.True(proof.Channels.Bio)
}

func (s *VerifierSuite) TestRepoFileMatch() {
	client := &fakeArtifactClient{
		user: &github.User{Login: "octocat"},
		repo: ownedRepo("Octocat"), // ownership match is case-insensitive
		entries: []github.ContentEntry{
			{Name: "README.md", Type: "file", DownloadURL: "raw://readme"},
			{Name: "proof.txt", Type: "file", DownloadURL: "raw://proof"},
			{Name: "sub", Type: "dir"},
		},
		raw: map[string]string{
			"raw://readme": "nothing here",
			"raw://proof":  "code: abcd1234",
		},
	}
	v := New(client, "mentor-verification")

	proof := v.Verify(context.Background(), "octocat", "abcd1234")
	s.True(proof.Verified)
	s.True(proof.Channels.RepoFile)
}

func (s *VerifierSuite) TestRepoOwnedByOtherHandleNeverMatches() {
	client := &fakeArtifactClient{
		user: &github.User{Login: "octocat"},
		repo: ownedRepo("someone-else"),
		entries: []github.ContentEntry{
			{Name: "proof.txt", Type: "file", DownloadURL: "raw://proof"},
		},
		raw: map[string]string{"raw://proof": "code: abcd1234"},
	}
	v := New(client, "mentor-verification")

	proof := v.Verify(context.Background(), "octocat", "abcd1234")
	s.False(proof.Channels.RepoFile)
}

func (s *VerifierSuite) TestForkedProofRepoNeverMatches() {
	forked := ownedRepo("octocat")
	forked.Fork = true
	client := &fakeArtifactClient{
		user: &github.User{Login: "octocat"},
		repo: forked,
		entries: []github.ContentEntry{
			{Name: "proof.txt", Type: "file", DownloadURL: "raw://proof"},
		},
		raw: map[string]string{"raw://proof": "code: abcd1234"},
	}
	v := New(client, "mentor-verification")

	proof := v.Verify(context.Background(), "octocat", "abcd1234")
	s.False(proof.Channels.RepoFile)
}

func (s *VerifierSuite) TestGistOwnedByOtherHandleIsSkipped() {
	client := &fakeArtifactClient{
		user:    &github.User{Login: "octocat"},
		repoErr: sentinel.ErrNotFound,
		gists: []github.Gist{
			ownedGist("impostor", map[string]github.GistFile{
				"proof.txt": {Filename: "proof.txt", Content: "abcd1234"},
			}),
		},
	}
	v := New(client, "mentor-verification")

	proof := v.Verify(context.Background(), "octocat", "abcd1234")
	s.False(proof.Verified)
}

// Channel fetch errors degrade to non-matches; zero matches is a legitimate
// outcome, not an error.
func (s *VerifierSuite) TestAllChannelsFailingYieldsUnproven() {
	client := &fakeArtifactClient{
		userErr:  errors.New("network down"),
		repoErr:  errors.New("network down"),
		gistsErr: errors.New("network down"),
	}
	v := New(client, "mentor-verification")

	proof := v.Verify(context.Background(), "octocat", "abcd1234")
	s.False(proof.Verified)
	s.Equal(proof.Channels.Bio, false)
	s.Equal(proof.Channels.RepoFile, false)
	s.Equal(proof.Channels.Gist, false)
}

func (s *VerifierSuite) TestGistFallsBackToRawURL() {
	client := &fakeArtifactClient{
		user:    &github.User{Login: "octocat"},
		repoErr: sentinel.ErrNotFound,
		gists: []github.Gist{
			ownedGist("octocat", map[string]github.GistFile{
				"big.txt": {Filename: "big.txt", RawURL: "raw://big"},
			}),
		},
		raw: map[string]string{"raw://big": "the code abcd1234 lives here"},
	}
	v := New(client, "mentor-verification")

	proof := v.Verify(context.Background(), "octocat", "abcd1234")
	s.True(proof.Channels.Gist)
}
