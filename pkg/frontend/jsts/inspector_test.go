package jsts_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/codegraph/pkg/diag"
	"github.com/viant/codegraph/pkg/frontend/jsts"
	"github.com/viant/codegraph/pkg/model"
)

const accountSource = `import { Money } from "./money";

/**
 * Tracks a billing account.
 * @param cents the starting balance
 */
export class Account extends Entity implements Payable {
    private balance: number;

    /**
     * Charges the account.
     * @param cents the amount to charge
     */
    charge(cents: number): boolean {
        return this.validate(cents);
    }

    private validate(cents: number): boolean {
        return cents > 0;
    }
}
`

func TestParseExtractsImportsClassAndMethods(t *testing.T) {
	pool, err := jsts.NewPool(1)
	assert.NoError(t, err)
	inspector := jsts.NewInspector(pool)

	mod, diags, err := inspector.Parse(context.Background(), "app/account.ts", []byte(accountSource))
	assert.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, model.LangJSTS, mod.Language)

	if assert.Len(t, mod.Imports, 1) {
		assert.Equal(t, "./money", mod.Imports[0].Path)
		assert.Equal(t, "Money", mod.Imports[0].Name)
	}

	if assert.Len(t, mod.Types, 1) {
		account := mod.Types[0]
		assert.Equal(t, "Account", account.Name)
		assert.True(t, account.IsExported)
		if assert.Len(t, account.Bases, 1) {
			assert.Equal(t, "Entity", account.Bases[0].Text)
		}
		if assert.Len(t, account.Implements, 1) {
			assert.Equal(t, "Payable", account.Implements[0].Text)
		}
		if assert.Len(t, account.Members, 1) {
			assert.Equal(t, "balance", account.Members[0].Name)
			assert.Equal(t, model.VisibilityPrivate, account.Members[0].Visibility)
		}
		if assert.Len(t, account.Methods, 2) {
			charge := account.Methods[0]
			assert.Equal(t, "charge", charge.Name)
			assert.Equal(t, model.VisibilityPublic, charge.Visibility)
			assert.Equal(t, "boolean", charge.Returns.Text)
			assert.Equal(t, "the amount to charge", charge.ParamDocs["cents"])
			if assert.Len(t, charge.CallSites, 1) {
				assert.Equal(t, "validate", charge.CallSites[0].Callee)
				assert.Equal(t, "this", charge.CallSites[0].Receiver)
			}

			validate := account.Methods[1]
			assert.Equal(t, "validate", validate.Name)
			assert.Equal(t, model.VisibilityPrivate, validate.Visibility)
		}
	}
}

func TestParseWithNilPoolReportsHelperUnavailable(t *testing.T) {
	inspector := jsts.NewInspector(nil)
	mod, diags, err := inspector.Parse(context.Background(), "app/account.ts", []byte(accountSource))
	assert.NoError(t, err)
	assert.Nil(t, mod)
	if assert.Len(t, diags, 1) {
		assert.Equal(t, diag.HelperUnavailable, diags[0].Kind)
		assert.Equal(t, "jsts", diags[0].Frontend)
	}
}
