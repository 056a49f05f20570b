package registration

import "github.com/google/uuid"

type StepPersistedEvent struct {
	SessionID string
	Step      Step
	IsEdit    bool
}

type RegistrationCompletedEvent struct {
	SessionID string
	HeadUUID  uuid.UUID
	MemberID  int
}

type WizardResetEvent struct {
	SessionID string
}
