package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent_CombinesTypeAndEntity(t *testing.T) {
	evt := NewEvent(EventTypeIssued, EntityTypeAppliedCharge, map[string]int{"id": 7})
	assert.Equal(t, "applied_charge.issued", evt.Type)
	assert.Equal(t, EntityTypeAppliedCharge, evt.Entity)
	assert.False(t, evt.Timestamp.IsZero())
}

func TestEvent_ToJSON(t *testing.T) {
	evt := PaymentRecorded(map[string]string{"reference": "P-001"})
	data, err := evt.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "payment.created", decoded["type"])
	assert.Equal(t, "payment", decoded["entity"])
}

func TestConstructors_ProduceExpectedTypes(t *testing.T) {
	cases := []struct {
		name string
		evt  Event
		want string
	}{
		{"AppliedChargeIssued", AppliedChargeIssued(nil), "applied_charge.issued"},
		{"AppliedChargeCancelled", AppliedChargeCancelled(nil), "applied_charge.cancelled"},
		{"PaymentRecorded", PaymentRecorded(nil), "payment.created"},
		{"CreditApplied", CreditApplied(nil), "credit.applied"},
		{"InvoiceEmitted", InvoiceEmitted(nil), "invoice.emitted"},
		{"InvoiceAnnulled", InvoiceAnnulled(nil), "invoice.annulled"},
		{"CreditNoteCreated", CreditNoteCreated(nil), "credit_note.created"},
		{"BillingBatchCompleted", BillingBatchCompleted(nil), "billing_batch.completed"},
		{"PayrollRunConfirmed", PayrollRunConfirmed(nil), "payroll_run.confirmed"},
		{"PayrollRunPaidOut", PayrollRunPaidOut(nil), "payroll_run.paid_out"},
		{"EmployeePaymentRecorded", EmployeePaymentRecorded(nil), "employee_payment.created"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.evt.Type)
		})
	}
}
