package handler

import (
	"strings"

	"mentorgate/internal/verification/identity"
	"mentorgate/internal/verification/models"
	dErrors "mentorgate/pkg/domain-errors"
)

type initiateRequest struct {
	GitHubHandle string `json:"github_handle"`
}

func (r *initiateRequest) Validate() error {
	if strings.TrimSpace(r.GitHubHandle) == "" {
		return dErrors.New(dErrors.CodeValidation, "github_handle is required")
	}
	return nil
}

type completeRequest struct {
	GitHubHandle string `json:"github_handle"`
}

func (r *completeRequest) Validate() error {
	if strings.TrimSpace(r.GitHubHandle) == "" {
		return dErrors.New(dErrors.CodeValidation, "github_handle is required")
	}
	return nil
}

type documentPayload struct {
	Type models.DocumentType `json:"type"`
	// Data carries the scanned document, base64-encoded on the wire.
	Data []byte `json:"data"`
}

type submitDocumentsRequest struct {
	Documents []documentPayload `json:"documents"`
}

func (r *submitDocumentsRequest) Validate() error {
	if len(r.Documents) == 0 {
		return dErrors.New(dErrors.CodeValidation, "at least one document is required")
	}
	for _, doc := range r.Documents {
		if doc.Type == "" {
			return dErrors.New(dErrors.CodeValidation, "document type is required")
		}
		if len(doc.Data) == 0 {
			return dErrors.New(dErrors.CodeValidation, "document data is required")
		}
	}
	return nil
}

type startIdentityRequest struct {
	Channel     identity.Channel `json:"channel"`
	Destination string           `json:"destination"`
}

func (r *startIdentityRequest) Validate() error {
	if !r.Channel.Valid() {
		return dErrors.New(dErrors.CodeValidation, "channel must be email or phone")
	}
	if strings.TrimSpace(r.Destination) == "" {
		return dErrors.New(dErrors.CodeValidation, "destination is required")
	}
	return nil
}

type confirmIdentityRequest struct {
	Token string `json:"token"`
}

func (r *confirmIdentityRequest) Validate() error {
	if r.Token == "" {
		return dErrors.New(dErrors.CodeValidation, "token is required")
	}
	return nil
}
