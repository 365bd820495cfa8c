package cli

import (
	"errors"

	"cashit/internal/bank"
	"cashit/internal/present"
)

var directionMenu = []Choice{
	{"1", "Add Money"},
	{"2", "Deduct Money"},
}

func (o *Operator) adminLoop() error {
	for {
		present.Banner(o.out, "ADMIN DASHBOARD")
		choice, err := o.choose("menu", adminMenu)
		if err != nil {
			return err
		}
		switch choice {
		case "1":
			present.Accounts(o.out, o.admin.ListAccounts())
		case "2":
			err = o.deleteUser()
		case "3":
			err = o.adjustBalance()
		case "4":
			o.println("\nAdmin Logged Out.")
			return nil
		default:
			o.println("Invalid Option.")
		}
		if err != nil {
			return err
		}
	}
}

func (o *Operator) deleteUser() error {
	cnic, err := o.line("CNIC to delete")
	if err != nil {
		return err
	}
	err = o.admin.DeleteAccount(cnic)
	switch {
	case err == nil:
		o.println("User deleted successfully.")
	case errors.Is(err, bank.ErrProtectedAccount):
		o.println("Cannot delete ADMIN.")
	case errors.Is(err, bank.ErrNotFound):
		o.println("User not found.")
	case errors.Is(err, bank.ErrPersistence):
		o.println("User deleted successfully.")
		o.warnPersistence(err)
	default:
		o.printf("Delete failed: %v\n", err)
	}
	return nil
}

func (o *Operator) adjustBalance() error {
	present.Banner(o.out, "ADMIN BALANCE CONTROL")
	cnic, err := o.line("User CNIC")
	if err != nil {
		return err
	}
	if cnic == bank.AdminID {
		o.println("Cannot modify ADMIN account.")
		return nil
	}
	user, err := o.store.Account(cnic)
	if err != nil {
		o.println("User not found.")
		return nil
	}
	present.Receipt(o.out, "User",
		present.Field{Label: "User Name", Value: user.Name},
		present.Field{Label: "Balance", Value: present.Rs(user.Balance)},
	)

	choice, err := o.choose("option", directionMenu)
	if err != nil {
		return err
	}
	var dir bank.Direction
	switch choice {
	case "1":
		dir = bank.DirectionAdd
	case "2":
		dir = bank.DirectionDeduct
	default:
		o.println("Invalid option.")
		return nil
	}

	amount, err := o.readAmount("Amount (Rs)")
	if err != nil {
		return err
	}
	balance, err := o.admin.AdjustBalance(cnic, amount, dir)
	if errors.Is(err, bank.ErrInsufficientFunds) {
		o.println("Insufficient balance to deduct.")
		return nil
	}
	if o.reportLedger(balance, err) {
		o.println("\nBalance Updated Successfully!")
	}
	return nil
}
