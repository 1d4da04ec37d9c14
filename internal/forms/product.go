package forms

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/samounneang/asatec-vercel/internal/catalog"
	"github.com/samounneang/asatec-vercel/internal/notify"
)

// ProductCreator creates catalog entries.
type ProductCreator interface {
	CreateProduct(ctx context.Context, input catalog.ProductInput) (catalog.Product, error)
}

var productRules = []Rule{
	{Name: "title", Required: true},
	{Name: "description", Required: true},
	{Name: "category", Required: true},
}

// DecodeProduct coerces submitted fields into a create payload. New entries
// are always active; the featured flag follows checkbox presence.
func DecodeProduct(values url.Values) (catalog.ProductInput, error) {
	input := catalog.ProductInput{
		Title:          strings.TrimSpace(values.Get("title")),
		Subtitle:       strings.TrimSpace(values.Get("subtitle")),
		Description:    strings.TrimSpace(values.Get("description")),
		TechnicalSpecs: strings.TrimSpace(values.Get("technicalSpecs")),
		ImageURL:       strings.TrimSpace(values.Get("imageUrl")),
		ModelNumber:    strings.TrimSpace(values.Get("modelNumber")),
		IsFeatured:     values.Has("isFeatured"),
		IsActive:       true,
	}

	code, err := strconv.Atoi(strings.TrimSpace(values.Get("category")))
	if err != nil || !catalog.Category(code).Known() {
		verr := &ValidationError{}
		verr.Add("category", "Please select a valid category")
		return catalog.ProductInput{}, verr
	}
	input.Category = catalog.Category(code)
	return input, nil
}

// ProductFlow submits the admin catalog-entry form.
func ProductFlow(api ProductCreator, afterSuccess func(ctx context.Context)) Flow {
	return Flow{
		Name:  "productForm",
		Rules: productRules,
		Submit: func(ctx context.Context, values url.Values) error {
			input, err := DecodeProduct(values)
			if err != nil {
				return err
			}
			_, err = api.CreateProduct(ctx, input)
			return err
		},
		AfterSuccess:   afterSuccess,
		SuccessMessage: "Product added successfully!",
		FailureMessage: "Failed to save product. Please try again.",
		DismissAfter:   notify.AdminDismiss,
	}
}

// ProductDeleter removes catalog entries.
type ProductDeleter interface {
	DeleteProduct(ctx context.Context, id int64) error
}

// DeleteProductAction removes one catalog entry.
func DeleteProductAction(api ProductDeleter, id int64) Action {
	return Action{
		Name:           "deleteProduct",
		Do:             func(ctx context.Context) error { return api.DeleteProduct(ctx, id) },
		SuccessMessage: "Product deleted successfully!",
		FailureMessage: "Failed to delete product.",
		DismissAfter:   notify.AdminDismiss,
	}
}

// ContactAdmin manages contact submissions.
type ContactAdmin interface {
	DeleteContact(ctx context.Context, id int64) error
	MarkAllContactsRead(ctx context.Context) error
}

// DeleteContactAction removes one contact submission.
func DeleteContactAction(api ContactAdmin, id int64) Action {
	return Action{
		Name:           "deleteContact",
		Do:             func(ctx context.Context) error { return api.DeleteContact(ctx, id) },
		SuccessMessage: "Contact deleted successfully!",
		FailureMessage: "Failed to delete contact.",
		DismissAfter:   notify.AdminDismiss,
	}
}

// MarkAllReadAction marks every contact submission as read.
func MarkAllReadAction(api ContactAdmin) Action {
	return Action{
		Name:           "markAllRead",
		Do:             api.MarkAllContactsRead,
		SuccessMessage: "All contacts marked as read!",
		FailureMessage: "Failed to mark contacts as read.",
		DismissAfter:   notify.AdminDismiss,
	}
}
