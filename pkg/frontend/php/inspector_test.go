package php_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/codegraph/pkg/frontend/php"
	"github.com/viant/codegraph/pkg/model"
)

const accountSource = `<?php
namespace App\Billing;

use App\Support\Money;

class Account extends Entity implements Payable
{
    private string $owner;

    /**
     * Charges the account.
     * @param int $cents the amount in cents
     * @return bool
     */
    public function charge($cents)
    {
        return $this->validate($cents);
    }

    private function validate($cents)
    {
        return $cents > 0;
    }
}
`

func TestParseExtractsNamespaceClassAndMethods(t *testing.T) {
	inspector := php.NewInspector()

	mod, diags, err := inspector.Parse(context.Background(), "app/Account.php", []byte(accountSource))
	assert.NoError(t, err)
	assert.Empty(t, diags)

	assert.Equal(t, model.LangPHP, mod.Language)
	assert.Equal(t, `App\Billing`, mod.Package)

	if assert.Len(t, mod.Imports, 1) {
		assert.Equal(t, `App\Support\Money`, mod.Imports[0].Path)
	}

	if assert.Len(t, mod.Types, 1) {
		account := mod.Types[0]
		assert.Equal(t, "Account", account.Name)
		if assert.Len(t, account.Bases, 1) {
			assert.Equal(t, "Entity", account.Bases[0].Text)
		}
		if assert.Len(t, account.Implements, 1) {
			assert.Equal(t, "Payable", account.Implements[0].Text)
		}
		if assert.Len(t, account.Members, 1) {
			assert.Equal(t, "owner", account.Members[0].Name)
			assert.Equal(t, model.VisibilityPrivate, account.Members[0].Visibility)
		}
		if assert.Len(t, account.Methods, 2) {
			charge := account.Methods[0]
			assert.Equal(t, "charge", charge.Name)
			assert.Equal(t, model.VisibilityPublic, charge.Visibility)
			assert.Equal(t, "the amount in cents", charge.ParamDocs["cents"])
			if assert.Len(t, charge.CallSites, 1) {
				assert.Equal(t, "validate", charge.CallSites[0].Callee)
				assert.Equal(t, "$this", charge.CallSites[0].Receiver)
			}

			validate := account.Methods[1]
			assert.Equal(t, "validate", validate.Name)
			assert.Equal(t, model.VisibilityPrivate, validate.Visibility)
		}
	}
}
