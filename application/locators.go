package application

import "github.com/amp-labs/easyapply/probe"

// Controls of the form. Child locators are resolved inside a question block.
//
//nolint:gochecknoglobals
var (
	UploadControl = probe.Locator{Name: "upload", Selector: "label[aria-label='DOC, DOCX, PDF formats only (2 MB).']"}
	NextButton    = probe.Locator{Name: "next", Selector: "button[aria-label='Continue to next step']"}
	ReviewButton  = probe.Locator{Name: "review", Selector: "button[aria-label='Review your application']"}
	SubmitButton  = probe.Locator{Name: "submit", Selector: "button[aria-label='Submit application']"}

	ErrorIndicator = probe.Locator{Name: "error", Selector: "p[data-test-form-element-error-message='true']"}
	ErrorHidden    = probe.Locator{Name: "error_hidden", Selector: "p[class='fb-form-element__error-text t-12 visually-hidden']"}
	ErrorVisible   = probe.Locator{Name: "error_visible", Selector: "p[class='fb-form-element__error-text t-12']"}

	QuestionBlock = probe.Locator{Name: "question", Selector: "div.jobs-easy-apply-form-section__grouping"}
	YesOption     = probe.Locator{Name: "yes", Selector: "input[value='Yes']"}
	NoOption      = probe.Locator{Name: "no", Selector: "input[value='No']"}
	TextField     = probe.Locator{Name: "text", Selector: "input[type='text']"}
)
