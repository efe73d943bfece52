package application

import (
	"context"
	"fmt"

	"github.com/amp-labs/easyapply/logger"
	"github.com/amp-labs/easyapply/probe"
	"github.com/amp-labs/easyapply/questions"
)

// answerQuestions fills every question block on screen with its canned answer.
// Unmatched questions are left alone; a failure on one block does not stop the rest.
func (a *Application) answerQuestions(ctx context.Context) {
	log := logger.Get(ctx)

	blocks, err := a.doc.FindAll(ctx, QuestionBlock)
	if err != nil {
		log.Error("Unable to find question blocks", "error", err)

		return
	}

	if len(blocks) == 0 {
		log.Warn("No questions found")
		questionsAnswered.WithLabelValues("none").Inc()

		return
	}

	for i, block := range blocks {
		text, err := a.doc.Text(ctx, block)
		if err != nil {
			log.Error("Unable to read question", "block", i, "error", err)

			continue
		}

		answer, ok := a.answers.Match(text)
		if !ok {
			log.Warn("Unable to answer question", "question", text)
			questionsAnswered.WithLabelValues("unmatched").Inc()

			continue
		}

		if err := a.answer(ctx, block, answer); err != nil { //nolint:noinlineerr
			log.Error("Unable to apply answer", "question", text, "answer", answer.String(), "error", err)
			questionsAnswered.WithLabelValues("failed").Inc()

			continue
		}

		log.Info("Answered question", "question", text, "answer", answer.String())
		questionsAnswered.WithLabelValues(answer.Kind.String()).Inc()
	}
}

func (a *Application) answer(ctx context.Context, block probe.Handle, answer questions.Action) error {
	switch answer.Kind {
	case questions.SelectYes:
		return a.choose(ctx, block, YesOption)
	case questions.SelectNo:
		return a.choose(ctx, block, NoOption)
	case questions.FillText:
		return a.fill(ctx, block, answer.Value)
	default:
		return fmt.Errorf("unsupported answer kind %s", answer.Kind)
	}
}

func (a *Application) choose(ctx context.Context, block probe.Handle, option probe.Locator) error {
	handle, err := a.doc.FindChild(ctx, block, option)
	if err != nil {
		return err
	}

	if _, err := a.interactionPacer.Pause(ctx); err != nil { //nolint:noinlineerr
		return err
	}

	return a.doc.Click(ctx, handle)
}

// fill types value into the block's text field unless it already holds something.
func (a *Application) fill(ctx context.Context, block probe.Handle, value string) error {
	field, err := a.doc.FindChild(ctx, block, TextField)
	if err != nil {
		return err
	}

	if err := a.doc.Clear(ctx, field); err != nil { //nolint:noinlineerr
		return err
	}

	current, err := a.doc.Value(ctx, field)
	if err != nil {
		return err
	}

	if current != "" {
		return nil
	}

	if _, err := a.interactionPacer.Pause(ctx); err != nil { //nolint:noinlineerr
		return err
	}

	if err := a.doc.Click(ctx, field); err != nil { //nolint:noinlineerr
		return err
	}

	if _, err := a.interactionPacer.Pause(ctx); err != nil { //nolint:noinlineerr
		return err
	}

	return a.doc.Type(ctx, field, value)
}

// uploadResume opens the file picker and hands it the resume. Failures are logged.
func (a *Application) uploadResume(ctx context.Context) {
	log := logger.Get(ctx)

	if a.resumePath == "" {
		log.Warn("No resume configured, skipping upload")
		uploads.WithLabelValues("skipped").Inc()

		return
	}

	if !a.exists(ctx, UploadControl) {
		log.Warn("Upload control vanished before upload")
		uploads.WithLabelValues("failed").Inc()

		return
	}

	handle, err := a.doc.WaitUntilClickable(ctx, UploadControl, a.clickTimeout)
	if err != nil {
		logInteractionFailure(ctx, "Upload control never became clickable", "upload", UploadControl, err)
		uploads.WithLabelValues("failed").Inc()

		return
	}

	if _, err := a.uploadPacer.Pause(ctx); err != nil { //nolint:noinlineerr
		log.Warn("Upload interrupted", "error", err)
		uploads.WithLabelValues("failed").Inc()

		return
	}

	if err := a.doc.Click(ctx, handle); err != nil { //nolint:noinlineerr
		logInteractionFailure(ctx, "Unable to click upload control", "upload", UploadControl, err)
		uploads.WithLabelValues("failed").Inc()

		return
	}

	if err := a.deliverer.Deliver(ctx, a.resumePath); err != nil { //nolint:noinlineerr
		log.Error("Unable to deliver resume", "path", a.resumePath, "error", err)
		uploads.WithLabelValues("failed").Inc()

		return
	}

	log.Info("Resume uploaded", "path", a.resumePath)
	uploads.WithLabelValues("delivered").Inc()
}

// announceSuspension is the post-action of every move into Suspended.
func (a *Application) announceSuspension(ctx context.Context) {
	logger.Get(ctx).Error("Application suspended", "recoveries", a.recoveries)
}
