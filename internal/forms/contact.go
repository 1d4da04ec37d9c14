package forms

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/samounneang/asatec-vercel/internal/catalog"
	"github.com/samounneang/asatec-vercel/internal/notify"
)

// ContactSubmitter forwards public contact submissions.
type ContactSubmitter interface {
	SubmitContact(ctx context.Context, submission catalog.ContactSubmission) (catalog.Contact, error)
}

var contactRules = []Rule{
	{Name: "firstName", Required: true},
	{Name: "lastName", Required: true},
	{Name: "email", Required: true, Email: true},
	{Name: "subject", Required: true},
	{Name: "message", Required: true},
}

// DecodeContact builds a submission from form values. Unknown or missing
// types fall back to General.
func DecodeContact(values url.Values) catalog.ContactSubmission {
	submission := catalog.ContactSubmission{
		FirstName: strings.TrimSpace(values.Get("firstName")),
		LastName:  strings.TrimSpace(values.Get("lastName")),
		Email:     strings.TrimSpace(values.Get("email")),
		Phone:     strings.TrimSpace(values.Get("phone")),
		Company:   strings.TrimSpace(values.Get("company")),
		Subject:   strings.TrimSpace(values.Get("subject")),
		Message:   strings.TrimSpace(values.Get("message")),
		Type:      catalog.ContactTypeGeneral,
	}
	if code, err := strconv.Atoi(strings.TrimSpace(values.Get("type"))); err == nil && catalog.ContactType(code).Known() {
		submission.Type = catalog.ContactType(code)
	}
	return submission
}

// ContactFlow submits the public contact form. Throttle may be nil.
func ContactFlow(api ContactSubmitter, throttle *Throttle, clientKey string) Flow {
	flow := Flow{
		Name:  "contactForm",
		Rules: contactRules,
		Submit: func(ctx context.Context, values url.Values) error {
			_, err := api.SubmitContact(ctx, DecodeContact(values))
			return err
		},
		SuccessMessage: "Thank you for your message! We will get back to you soon.",
		FailureMessage: "There was an error submitting your message. Please try again.",
		DismissAfter:   notify.SiteDismiss,
	}
	if throttle != nil {
		flow.Guard = func(context.Context) error {
			if !throttle.Allow(clientKey) {
				return &GuardError{Message: "Too many messages sent. Please wait a minute and try again."}
			}
			return nil
		}
	}
	return flow
}

// NewsletterFlow acknowledges a newsletter signup. There is no subscription
// endpoint, so a valid address is all it takes.
func NewsletterFlow() Flow {
	return Flow{
		Name:           "newsletterForm",
		Rules:          []Rule{{Name: "email", Required: true, Email: true}},
		Submit:         func(context.Context, url.Values) error { return nil },
		SuccessMessage: "Successfully subscribed to our newsletter!",
		FailureMessage: "There was an error subscribing. Please try again.",
		DismissAfter:   notify.SiteDismiss,
	}
}
