package register_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/davecgh/go-spew/spew"

	"github.com/fairyhunter13/pos-register/internal/model"
	"github.com/fairyhunter13/pos-register/internal/register"
)

type registerTestContext struct {
	catalog map[int64]model.Product
	env     register.Env
	state   register.State
	last    register.Outcome
}

func (c *registerTestContext) reset() {
	c.catalog = map[int64]model.Product{}
	c.env = register.Env{
		Now:     func() time.Time { return time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC) },
		Numbers: register.NewNumberer("TWPOS-KS"),
	}
	c.state = register.NewState()
	c.last = register.Outcome{}
}

func (c *registerTestContext) apply(cmd register.Command) error {
	c.state, c.last = register.Apply(c.state, cmd, c.env)
	return nil
}

func (c *registerTestContext) aCatalogWithProduct(id int64, name string, price int64) error {
	c.catalog[id] = model.Product{ID: id, Name: name, Price: price}
	return nil
}

func (c *registerTestContext) iAddProduct(id int64) error {
	p, ok := c.catalog[id]
	if !ok {
		return fmt.Errorf("product %d not in catalog", id)
	}
	return c.apply(register.AddItem{Product: p})
}

func (c *registerTestContext) iAdjustProductBy(id, delta int64) error {
	return c.apply(register.AdjustQuantity{ProductID: id, Delta: delta})
}

func (c *registerTestContext) iTypeAsCash(raw string) error {
	return c.apply(register.SetTender{Raw: raw})
}

func (c *registerTestContext) iAddQuickCash(amount int64) error {
	return c.apply(register.AddTender{Amount: amount})
}

func (c *registerTestContext) iSubmitTheSale() error { return c.apply(register.Submit{}) }
func (c *registerTestContext) theReceiptIsPrinted() error { return c.apply(register.Complete{}) }
func (c *registerTestContext) theReceiptIsCancelled() error {
	return c.apply(register.Cancel{})
}

func (c *registerTestContext) theCartHasLines(n int) error {
	if got := c.state.Cart().Len(); got != n {
		return fmt.Errorf("expected %d lines, got %d: %s", n, got, spew.Sdump(c.state.Cart().Lines()))
	}
	return nil
}

func (c *registerTestContext) productHasQuantity(id, qty int64) error {
	l, ok := c.state.Cart().Line(id)
	if !ok {
		return fmt.Errorf("product %d not in cart", id)
	}
	if l.Quantity != qty {
		return fmt.Errorf("expected quantity %d, got %d", qty, l.Quantity)
	}
	return nil
}

func (c *registerTestContext) productIsNotInTheCart(id int64) error {
	if _, ok := c.state.Cart().Line(id); ok {
		return fmt.Errorf("product %d still in cart: %s", id, spew.Sdump(c.state.Cart().Lines()))
	}
	return nil
}

func (c *registerTestContext) theTotalIs(total int64) error {
	if got := c.state.Totals().Total; got != total {
		return fmt.Errorf("expected total %d, got %d", total, got)
	}
	return nil
}

func (c *registerTestContext) theChangeIs(change int64) error {
	if got := c.state.Totals().Change; got != change {
		return fmt.Errorf("expected change %d, got %d", change, got)
	}
	return nil
}

func (c *registerTestContext) theTenderIs(amount int64) error {
	if got := c.state.Tender().Amount(); got != amount {
		return fmt.Errorf("expected tender %d, got %d", amount, got)
	}
	return nil
}

func (c *registerTestContext) theSaleIsSubmittable() error {
	if !c.state.Totals().SubmitEligible {
		return fmt.Errorf("expected submittable: %s", spew.Sdump(c.state.Totals()))
	}
	return nil
}

func (c *registerTestContext) theSaleIsNotSubmittable() error {
	if c.state.Totals().SubmitEligible {
		return fmt.Errorf("expected not submittable: %s", spew.Sdump(c.state.Totals()))
	}
	return nil
}

func (c *registerTestContext) theRegisterIs(phase string) error {
	if got := c.state.Phase().String(); got != phase {
		return fmt.Errorf("expected phase %q, got %q", phase, got)
	}
	return nil
}

func (c *registerTestContext) theReceiptShows(total, tendered, change int64) error {
	r, ok := c.state.Receipt()
	if !ok {
		return fmt.Errorf("no pending receipt")
	}
	if r.Total != total || r.Tendered != tendered || r.Change != change {
		return fmt.Errorf("unexpected receipt: %s", spew.Sdump(r))
	}
	return nil
}

func (c *registerTestContext) theReceiptHasLines(n int) error {
	r, ok := c.state.Receipt()
	if !ok {
		return fmt.Errorf("no pending receipt")
	}
	if len(r.Lines) != n {
		return fmt.Errorf("expected %d receipt lines, got %d", n, len(r.Lines))
	}
	return nil
}

func (c *registerTestContext) theCartIsEmpty() error {
	if !c.state.Cart().IsEmpty() {
		return fmt.Errorf("cart not empty: %s", spew.Sdump(c.state.Cart().Lines()))
	}
	return nil
}

func (c *registerTestContext) theCommandIsRejectedWith(msg string) error {
	if c.last.Err == nil {
		return fmt.Errorf("expected rejection %q, command succeeded", msg)
	}
	if c.last.Err.Error() != msg {
		return fmt.Errorf("expected rejection %q, got %q", msg, c.last.Err.Error())
	}
	return nil
}

func (c *registerTestContext) theLastSignalIs(sig string) error {
	if len(c.last.Signals) == 0 {
		return fmt.Errorf("expected signal %q, none emitted", sig)
	}
	if got := c.last.Signals[len(c.last.Signals)-1].String(); got != sig {
		return fmt.Errorf("expected signal %q, got %q", sig, got)
	}
	return nil
}

func (c *registerTestContext) noSignalWasEmitted() error {
	if len(c.last.Signals) != 0 {
		return fmt.Errorf("expected no signal, got %v", c.last.Signals)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &registerTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a catalog with product (\d+) "([^"]*)" priced (\d+)$`, tc.aCatalogWithProduct)

	// When steps
	ctx.Step(`^I add product (\d+)$`, tc.iAddProduct)
	ctx.Step(`^I adjust product (\d+) by (-?\d+)$`, tc.iAdjustProductBy)
	ctx.Step(`^I type "([^"]*)" as cash$`, tc.iTypeAsCash)
	ctx.Step(`^I add quick cash (\d+)$`, tc.iAddQuickCash)
	ctx.Step(`^I submit the sale$`, tc.iSubmitTheSale)
	ctx.Step(`^the receipt is printed$`, tc.theReceiptIsPrinted)
	ctx.Step(`^the receipt is cancelled$`, tc.theReceiptIsCancelled)

	// Then steps
	ctx.Step(`^the cart has (\d+) lines?$`, tc.theCartHasLines)
	ctx.Step(`^product (\d+) has quantity (\d+)$`, tc.productHasQuantity)
	ctx.Step(`^product (\d+) is not in the cart$`, tc.productIsNotInTheCart)
	ctx.Step(`^the total is (-?\d+)$`, tc.theTotalIs)
	ctx.Step(`^the change is (-?\d+)$`, tc.theChangeIs)
	ctx.Step(`^the tender is (\d+)$`, tc.theTenderIs)
	ctx.Step(`^the sale is submittable$`, tc.theSaleIsSubmittable)
	ctx.Step(`^the sale is not submittable$`, tc.theSaleIsNotSubmittable)
	ctx.Step(`^the register is "([^"]*)"$`, tc.theRegisterIs)
	ctx.Step(`^the receipt shows total (\d+), tendered (\d+) and change (-?\d+)$`, tc.theReceiptShows)
	ctx.Step(`^the receipt has (\d+) lines$`, tc.theReceiptHasLines)
	ctx.Step(`^the cart is empty$`, tc.theCartIsEmpty)
	ctx.Step(`^the command is rejected with "([^"]*)"$`, tc.theCommandIsRejectedWith)
	ctx.Step(`^the last signal is "([^"]*)"$`, tc.theLastSignalIs)
	ctx.Step(`^no signal was emitted by the last command$`, tc.noSignalWasEmitted)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/register.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
