package cli

import (
	"errors"

	"cashit/internal/bank"
	"cashit/internal/present"
	"cashit/internal/validation"
)

// login 回傳登入的帳戶；使用者放棄重試時回傳 nil。
func (o *Operator) login() (*bank.Account, error) {
	present.Banner(o.out, "CASHIT LOGIN")
	for {
		cnic, err := o.line("CNIC (XXXXX-XXXXXXX-X)")
		if err != nil {
			return nil, err
		}
		pin, err := o.secret("4-digit PIN")
		if err != nil {
			return nil, err
		}

		if !validation.IsIdentityShapeValid(cnic) {
			o.println("Invalid CNIC Format.")
			continue
		}
		if !validation.IsPinShapeValid(pin) {
			o.println("PIN Must be 4 digits.")
			continue
		}

		acc, err := o.session.Authenticate(cnic, pin)
		switch {
		case err == nil:
			o.println("\nLogin Successful!")
			return acc, nil
		case errors.Is(err, bank.ErrBadCredentials):
			o.println("Incorrect PIN.")
		case errors.Is(err, bank.ErrNotFound):
			o.println("No account found.")
		default:
			return nil, err
		}

		retry, err := o.line("Try again? (yes/no)")
		if err != nil {
			return nil, err
		}
		if retry != "yes" && retry != "y" {
			return nil, nil
		}
	}
}

func (o *Operator) createAccount() error {
	present.Banner(o.out, "CREATE NEW ACCOUNT")
	o.println("Welcome! Please provide the required information")
	o.println("to open your new bank account with us.")

	var req bank.OpenRequest
	var err error

	o.println("\nCNIC Format Example: 12345-6789012-3")
	for {
		if req.CNIC, err = o.line("CNIC"); err != nil {
			return err
		}
		if req.CNIC == "" {
			o.println("CNIC cannot be empty. Please try again.")
			continue
		}
		if !validation.IsIdentityShapeValid(req.CNIC) {
			o.println("Invalid CNIC format.")
			o.println("   - Must be in format: XXXXX-XXXXXXX-X")
			o.println("   - All parts must be digits only")
			continue
		}
		if _, err := o.store.Get(req.CNIC); err == nil {
			o.println("An account with this CNIC already exists.")
			o.println("   If this is your account, please login instead.")
			continue
		}
		break
	}

	for {
		if req.Name, err = o.line("Full Name"); err != nil {
			return err
		}
		if !validation.IsNameValid(req.Name) {
			o.println("Name must be at least 3 characters and contain no numbers.")
			continue
		}
		break
	}

	o.println("\nIBAN Format Example: PK11456345687908765439")
	o.println("   - Must start with 'PK' followed by digits only")
	for {
		if req.IBAN, err = o.line("IBAN"); err != nil {
			return err
		}
		if req.IBAN == "" {
			o.println("IBAN cannot be empty.")
			continue
		}
		if !validation.IsAccountNumberShapeValid(req.IBAN) {
			o.println("Invalid IBAN format. Please check and re-enter your full IBAN correctly.")
			continue
		}
		break
	}

	o.println("\nSecurity PIN: exactly 4 digits, avoid common PINs such as 0000 or 1234.")
	if req.PIN, err = o.newPIN(false); err != nil {
		return err
	}

	acc, err := o.session.Open(req)
	switch {
	case err == nil:
	case errors.Is(err, bank.ErrPersistence):
		o.warnPersistence(err)
	default:
		o.printf("Account could not be created: %v\n", err)
		return nil
	}

	present.Receipt(o.out, "ACCOUNT CREATED SUCCESSFULLY!",
		present.Field{Label: "Welcome", Value: acc.Name},
		present.Field{Label: "Account CNIC", Value: acc.ID},
		present.Field{Label: "Signup Bonus", Value: present.Rs(bank.SignupBonus)},
	)
	return nil
}

// newPIN 讀取新 PIN 並要求再次輸入確認。
// askOverride 為 true 時，弱 PIN 需使用者確認才接受；否則只顯示警告。
func (o *Operator) newPIN(askOverride bool) (string, error) {
	for {
		pin, err := o.secret("new 4-digit PIN")
		if err != nil {
			return "", err
		}
		if !validation.IsPinShapeValid(pin) {
			o.println("PIN must be exactly 4 digits long and contain only numbers.")
			continue
		}
		if bank.IsWeakPIN(pin) {
			o.println("Warning: This is a commonly used PIN and may not be secure.")
			if askOverride {
				ok, err := o.confirm("Use it anyway?")
				if err != nil {
					return "", err
				}
				if !ok {
					continue
				}
			}
		}
		again, err := o.secret("confirm PIN")
		if err != nil {
			return "", err
		}
		if again != pin {
			o.println("PINs do not match. Please try again.")
			continue
		}
		return pin, nil
	}
}

func (o *Operator) changePIN(acc *bank.Account) error {
	present.Banner(o.out, "CHANGE PIN")
	old, err := o.secret("current PIN")
	if err != nil {
		return err
	}
	if _, err := o.session.Authenticate(acc.ID, old); err != nil {
		o.println("Incorrect current PIN.")
		return nil
	}

	pin, err := o.newPIN(true)
	if err != nil {
		return err
	}
	err = o.session.ChangePIN(acc, old, pin)
	switch {
	case err == nil:
	case errors.Is(err, bank.ErrPersistence):
		o.warnPersistence(err)
	default:
		o.printf("PIN could not be changed: %v\n", err)
		return nil
	}
	o.println("\nPIN changed successfully!")
	o.println("Please use your new PIN next time you login.")
	return nil
}
