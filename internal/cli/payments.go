package cli

import (
	"errors"

	"github.com/shopspring/decimal"

	"cashit/internal/bank"
	"cashit/internal/present"
	"cashit/internal/validation"
)

func (o *Operator) transfer(acc *bank.Account) error {
	present.Banner(o.out, "MONEY TRANSFER")

	var iban string
	for {
		var err error
		if iban, err = o.line("Receiver's IBAN (e.g., PK12ABCD...)"); err != nil {
			return err
		}
		if iban == "" {
			o.println("IBAN cannot be empty.")
			continue
		}
		if !validation.IsTransferDestinationValid(iban) {
			o.println("IBAN seems too short. Please enter the full IBAN.")
			continue
		}
		if !validation.HasLocalPrefix(iban) {
			o.println("Warning: IBAN should start with 'PK' for Pakistani accounts.")
		}
		ok, err := o.confirm("Confirm transfer to IBAN: " + iban + " ?")
		if err != nil {
			return err
		}
		if ok {
			break
		}
		o.println("Transfer cancelled. Please re-enter IBAN.")
	}

	amount, err := o.readAmount("Amount to Transfer (Rs)")
	if err != nil {
		return err
	}
	if amount.GreaterThan(largeTransfer) {
		o.println("Large amount detected.")
		ok, err := o.confirm("Are you sure you want to transfer this amount?")
		if err != nil {
			return err
		}
		if !ok {
			o.println("Transaction cancelled.")
			return nil
		}
	}

	present.Receipt(o.out, "Summary",
		present.Field{Label: "Receiver IBAN", Value: iban},
		present.Field{Label: "Amount", Value: present.Rs(amount)},
	)
	ok, err := o.confirm("Confirm Transfer?")
	if err != nil {
		return err
	}
	if !ok {
		o.println("\nTransfer Cancelled by User.")
		return nil
	}

	if o.reportLedger(o.ledger.Transfer(acc, iban, amount)) {
		present.Receipt(o.out, "TRANSFER SUCCESSFUL!",
			present.Field{Label: "Amount", Value: present.Rs(amount)},
			present.Field{Label: "IBAN", Value: iban},
		)
	}
	return nil
}

// payment 描述帳單、稅款與罰單三種繳費流程的差異。
type payment struct {
	title    string
	hint     string
	refLabel string
	refName  string
	amtLabel string
	summary  string
	confirm  string
	success  string
	pay      func(*bank.Account, string, decimal.Decimal) (decimal.Decimal, error)
}

func (o *Operator) payBill(acc *bank.Account) error {
	return o.pay(acc, payment{
		title:    "BILL PAYMENT",
		hint:     "Supported Bills: Electricity, Gas, Water, Internet, Mobile, etc.",
		refLabel: "Bill Reference/ID (e.g., Consumer Number)",
		refName:  "Bill ID/Reference",
		amtLabel: "Bill Amount (Rs)",
		summary:  "Bill Payment Summary",
		confirm:  "Proceed with Payment?",
		success:  "BILL PAYMENT SUCCESSFUL!",
		pay:      o.ledger.PayBill,
	})
}

func (o *Operator) payTax(acc *bank.Account) error {
	return o.pay(acc, payment{
		title:    "TAX PAYMENT",
		hint:     "Pay your Income Tax, Sales Tax, Property Tax, etc.",
		refLabel: "Tax Reference Number / NTN / CPR",
		refName:  "Reference No",
		amtLabel: "Tax Amount (Rs)",
		summary:  "Tax Payment Details",
		confirm:  "Confirm Tax Payment?",
		success:  "TAX PAYMENT SUCCESSFUL!",
		pay:      o.ledger.PayTax,
	})
}

func (o *Operator) payChallan(acc *bank.Account) error {
	return o.pay(acc, payment{
		title:    "CHALLAN PAYMENT",
		hint:     "Pay Government Challan, Fees, Fines, etc.",
		refLabel: "Challan Number",
		refName:  "Challan No",
		amtLabel: "Challan Amount (Rs)",
		summary:  "Challan Payment Summary",
		confirm:  "Proceed with Challan Payment?",
		success:  "CHALLAN PAYMENT SUCCESSFUL!",
		pay:      o.ledger.PayChallan,
	})
}

func (o *Operator) pay(acc *bank.Account, p payment) error {
	present.Banner(o.out, p.title)
	o.println(p.hint)

	var ref string
	for {
		var err error
		if ref, err = o.line(p.refLabel); err != nil {
			return err
		}
		if validation.IsReferenceValid(ref) {
			break
		}
		o.println(p.refName + " cannot be empty.")
	}

	amount, err := o.readAmount(p.amtLabel)
	if err != nil {
		return err
	}

	present.Receipt(o.out, p.summary,
		present.Field{Label: p.refName, Value: ref},
		present.Field{Label: "Amount", Value: present.Rs(amount)},
	)
	ok, err := o.confirm(p.confirm)
	if err != nil {
		return err
	}
	if !ok {
		o.println("\nPayment Cancelled.")
		return nil
	}

	if o.reportLedger(p.pay(acc, ref, amount)) {
		present.Receipt(o.out, p.success,
			present.Field{Label: p.refName, Value: ref},
			present.Field{Label: "Amount Paid", Value: present.Rs(amount)},
		)
	}
	return nil
}

func (o *Operator) dashboard(acc *bank.Account) {
	snapshot, err := o.store.Account(acc.ID)
	if err != nil {
		o.printf("Account unavailable: %v\n", err)
		return
	}
	recent, err := o.ledger.Recent(acc)
	if err != nil && !errors.Is(err, bank.ErrNoTransactions) {
		o.printf("Transactions unavailable: %v\n", err)
		return
	}
	present.Dashboard(o.out, snapshot, recent)
}
