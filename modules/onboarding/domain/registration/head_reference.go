package registration

import "github.com/google/uuid"

// HeadReference is the "new vs. existing" reconciliation state for the
// family head. It is either Known (an identifier fixed by selecting an
// existing head or returned by the create call) or Pending (a freshly
// typed name that will be created on the first step's submit). It resolves
// to Known exactly once; dependent steps refuse to submit before that.
type HeadReference struct {
	Kind     HeadReferenceKind `json:"kind"`
	UUID     uuid.UUID         `json:"uuid,omitempty"`
	Name     string            `json:"name,omitempty"`
	BranchID string            `json:"branchId,omitempty"`
}

type HeadReferenceKind string

const (
	HeadUnset   HeadReferenceKind = ""
	HeadKnown   HeadReferenceKind = "known"
	HeadPending HeadReferenceKind = "pending"
)

func KnownHead(id uuid.UUID) HeadReference {
	return HeadReference{Kind: HeadKnown, UUID: id}
}

func PendingHead(name, branchID string) HeadReference {
	return HeadReference{Kind: HeadPending, Name: name, BranchID: branchID}
}

func (h HeadReference) IsKnown() bool {
	return h.Kind == HeadKnown && h.UUID != uuid.Nil
}

// InvalidateForBranch clears a fixed identifier when the branch changes;
// each branch has a disjoint namespace of heads.
func (h HeadReference) InvalidateForBranch(branchID string) HeadReference {
	if h.Kind == HeadKnown {
		return HeadReference{}
	}
	if h.Kind == HeadPending && h.BranchID != branchID {
		return PendingHead(h.Name, branchID)
	}
	return h
}
