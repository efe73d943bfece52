package application

import "github.com/amp-labs/easyapply/statemachine"

// Table returns the session's transition table. Rules for a state are listed from the
// screen furthest into the form to the nearest, so the first rule that matches also
// identifies which variant of the form is showing. Every forward rule is vetoed by a
// confirmed validation error.
func (a *Application) Table() statemachine.Table[State] {
	var (
		checkIfUpload    = statemachine.NewGuard("check_if_upload", a.checkIfUpload)
		checkIfQuestions = statemachine.NewGuard("check_if_questions", a.checkIfQuestions)
		checkForError    = statemachine.NewGuard("check_for_error", a.checkForError)
		goToNext         = statemachine.NewEffect("go_to_next", a.goToNext)
		goToReview       = statemachine.NewEffect("go_to_review", a.goToReview)
		submitApp        = statemachine.NewEffect("submit_app", a.submitApp)

		uploadResume    = statemachine.NewAction("upload", a.uploadResume)
		answerQuestions = statemachine.NewAction("answer_questions", a.answerQuestions)
		handleError     = statemachine.NewAction("determine_error", a.handleError)
		announce        = statemachine.NewAction("announce_suspension", a.announceSuspension)
	)

	on := func(from, to State, guards ...statemachine.Guard) statemachine.Rule[State] {
		return statemachine.On(from, to).When(guards...).Unless(checkForError)
	}

	return statemachine.Table[State]{
		States:   States,
		Initial:  Info,
		Terminal: []State{Submitted, Suspended},
		Rules: []statemachine.Rule[State]{
			on(Info, Upload, checkIfUpload, goToNext).Then(uploadResume),
			on(Info, Questions1, checkIfQuestions, goToNext).Then(answerQuestions),
			on(Info, Review, goToReview),
			on(Info, Submitted, submitApp),

			on(Upload, Questions1, checkIfQuestions, goToNext).Then(answerQuestions),
			on(Upload, Review, goToReview),

			on(Questions1, Review, goToReview),
			on(Questions1, Questions2, goToNext).Then(answerQuestions),

			on(Questions2, Review, goToReview),

			on(Review, Submitted, submitApp),

			statemachine.FromAny(Error).When(checkForError).Then(handleError),
			statemachine.FromAny(Suspended).Then(announce),
		},
		Jumps: []statemachine.Jump[State]{
			statemachine.JumpTo(Suspended).Then(announce),
			statemachine.JumpFrom(Error, Info),
			statemachine.JumpFrom(Error, Questions1).Then(answerQuestions),
			statemachine.JumpFrom(Error, Questions2).Then(answerQuestions),
			statemachine.JumpFrom(Error, Review),
		},
	}
}
