package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/mattackal/family-onboarding/modules/onboarding/infrastructure/genealogy"
)

// GenealogyAPI is the slice of the backend the wizard needs. The concrete
// client lives in infrastructure; tests swap in a mock.
type GenealogyAPI interface {
	Branches(ctx context.Context) ([]genealogy.Branch, error)
	CreateHead(ctx context.Context, branchID, headName string) (genealogy.HeadRecord, error)
	UpdateHead(ctx context.Context, headUUID uuid.UUID, branchID, headName string) error
	SearchHeads(ctx context.Context, branchID, query string) ([]genealogy.HeadRecord, error)
	CreateMember(ctx context.Context, p genealogy.MemberPayload) (int, error)
	UpdateMember(ctx context.Context, memberID int, p genealogy.MemberPayload) error
	SearchMembersMini(ctx context.Context, gender, query string) ([]genealogy.MiniMember, error)
	CreateContact(ctx context.Context, p genealogy.ContactPayload) (int, error)
	UpdateContact(ctx context.Context, contactID int, p genealogy.ContactPayload) error
	CreateEmployment(ctx context.Context, p genealogy.EmploymentPayload) (int, error)
	UpdateEmployment(ctx context.Context, employmentID int, p genealogy.EmploymentPayload) error
	MemberPreview(ctx context.Context, headUUID uuid.UUID, memberID int) (genealogy.MemberPreview, error)
}
