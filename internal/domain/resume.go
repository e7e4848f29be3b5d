package domain

import "context"

type ResumeUsecase interface {
	// ParseAndApply validates an uploaded resume file, forwards it to the
	// upstream parser and merges the extracted fields into the user's
	// wizard state. Extracted values only fill fields the user has not
	// already filled in.
	ParseAndApply(ctx context.Context, userID, filename string, data []byte, detectedMIME string) (*WizardState, *ResumeData, error)
}
