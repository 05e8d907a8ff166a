package invoices

import (
	"github.com/shopspring/decimal"
	"github.com/yourusername/acme-invoices/models"
	"github.com/yourusername/acme-invoices/utils"
	"github.com/yourusername/acme-invoices/validation"
)

// Form field names.
const (
	FieldCustomerID = "customerId"
	FieldAmount     = "amount"
	FieldStatus     = "status"
)

const (
	msgCustomer = "Please select a customer."
	msgAmount   = "Please enter an amount greater than $0."
	msgTooLarge = "Please enter a smaller amount."
	msgStatus   = "Please select an invoice status."
)

var formSchema = validation.Schema{
	validation.NewField(FieldCustomerID, validation.Required(msgCustomer)),
	validation.NewField(FieldAmount,
		validation.GreaterThan(decimal.Zero, msgAmount),
		atLeastOneCent(msgAmount),
		fitsInCents(msgTooLarge),
	),
	validation.NewField(FieldStatus, validation.OneOf(msgStatus, string(models.StatusPending), string(models.StatusPaid))),
}

// atLeastOneCent rejects amounts that round down to zero cents, such as
// 0.004. Amounts too large for cents are left to fitsInCents.
func atLeastOneCent(msg string) validation.Rule {
	return validation.Rule{
		Message: msg,
		Check: func(value string, present bool) bool {
			n, err := validation.ParseNumber(value)
			if !present || err != nil {
				return false
			}
			cents, err := utils.ToCents(n)
			return err != nil || cents >= 1
		},
	}
}

// fitsInCents rejects amounts whose cents overflow the stored integer.
// Unparseable values are reported by the other amount rules.
func fitsInCents(msg string) validation.Rule {
	return validation.Rule{
		Message: msg,
		Check: func(value string, present bool) bool {
			n, err := validation.ParseNumber(value)
			if !present || err != nil {
				return true
			}
			_, err = utils.ToCents(n)
			return err == nil
		},
	}
}

// Form is a validated invoice submission. Amount is in dollars and
// AmountCents is its rounded value in cents.
type Form struct {
	CustomerID  string
	Amount      decimal.Decimal
	AmountCents int64
	Status      models.InvoiceStatus
}

// ParseForm validates raw input and coerces it into a Form.
func ParseForm(in validation.Input) (Form, validation.Errors) {
	if errs := formSchema.Validate(in); errs != nil {
		return Form{}, errs
	}

	// The schema already accepted the amount, so it parses and fits.
	amount, _ := validation.ParseNumber(in[FieldAmount])
	cents, _ := utils.ToCents(amount)
	return Form{
		CustomerID:  in[FieldCustomerID],
		Amount:      amount,
		AmountCents: cents,
		Status:      models.InvoiceStatus(in[FieldStatus]),
	}, nil
}
