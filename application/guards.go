package application

import (
	"context"
	"errors"

	"github.com/amp-labs/easyapply/logger"
	"github.com/amp-labs/easyapply/probe"
)

// exists reports whether the locator matches anything. A failed probe counts as absent.
func (a *Application) exists(ctx context.Context, loc probe.Locator) bool {
	present, err := a.doc.Exists(ctx, loc)
	if err != nil {
		logger.Get(ctx).Debug("Presence check failed", "locator", loc.String(), "error", err)

		return false
	}

	return present
}

// activate waits for the control to become clickable and clicks it on behalf of the
// named step. Any interaction failure is logged and reported as false.
func (a *Application) activate(ctx context.Context, step string, loc probe.Locator) bool {
	log := logger.Get(ctx)

	handle, err := a.doc.WaitUntilClickable(ctx, loc, a.clickTimeout)
	if err != nil {
		logInteractionFailure(ctx, "Control never became clickable", step, loc, err)

		return false
	}

	log.Info("Clicking control", "locator", loc.String())

	if err := a.doc.Click(ctx, handle); err != nil { //nolint:noinlineerr
		logInteractionFailure(ctx, "Unable to click control", step, loc, err)

		return false
	}

	return true
}

func logInteractionFailure(ctx context.Context, msg, step string, loc probe.Locator, err error) {
	log := logger.Get(ctx)
	annotated := logger.AnnotateError(err, "locator", loc.String(), "guard", step)

	if probe.IsTransient(err) || errors.Is(err, context.Canceled) {
		log.Warn(msg, "error", annotated)

		return
	}

	log.Error(msg, "error", annotated)
}

// checkIfUpload reports whether the upload screen is showing.
func (a *Application) checkIfUpload(ctx context.Context) bool {
	return a.exists(ctx, UploadControl)
}

// checkIfQuestions reports whether at least one question block is showing.
func (a *Application) checkIfQuestions(ctx context.Context) bool {
	return a.exists(ctx, QuestionBlock)
}

// goToNext clicks the next button when it is present.
func (a *Application) goToNext(ctx context.Context) bool {
	if !a.exists(ctx, NextButton) {
		return false
	}

	return a.activate(ctx, "go_to_next", NextButton)
}

// goToReview clicks the review button when it is present.
func (a *Application) goToReview(ctx context.Context) bool {
	if !a.exists(ctx, ReviewButton) {
		return false
	}

	return a.activate(ctx, "go_to_review", ReviewButton)
}

// submitApp clicks the submit button once the submit gate, if any, approves. There
// is no presence check: the bounded wait doubles as one.
func (a *Application) submitApp(ctx context.Context) bool {
	if a.submitGate != nil && !a.submitGate(ctx) {
		logger.Get(ctx).Warn("Submission declined by gate")

		return false
	}

	return a.activate(ctx, "submit_app", SubmitButton)
}

// checkForError reports whether the document shows a confirmed validation error.
//
// The hidden indicator is a placeholder rendered wherever validation may happen later,
// so its presence alone proves nothing:
//
//	generic absent                           -> false
//	generic present, hidden absent           -> true
//	generic present, hidden and visible      -> true
//	generic present, hidden, visible absent  -> false
//
// A failed probe at any step means no confirmed error.
func (a *Application) checkForError(ctx context.Context) bool {
	confirmed, err := a.detectError(ctx)
	if err != nil {
		logger.Get(ctx).Warn("Error check failed", "error", err)

		return false
	}

	if confirmed {
		logger.Get(ctx).Warn("Error detected")
	}

	return confirmed
}

func (a *Application) detectError(ctx context.Context) (bool, error) {
	generic, err := a.doc.Exists(ctx, ErrorIndicator)
	if err != nil || !generic {
		return false, err
	}

	hidden, err := a.doc.Exists(ctx, ErrorHidden)
	if err != nil {
		return false, err
	}

	if !hidden {
		return true, nil
	}

	return a.doc.Exists(ctx, ErrorVisible)
}
