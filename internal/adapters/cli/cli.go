package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"smallbiz-ledger/internal/app"
	"smallbiz-ledger/internal/core"
)

// Usage lists the read-only report commands.
const Usage = `Usage: ledgerctl <command> [args]

Commands:
  customers            outstanding balance of every customer
  suppliers            outstanding balance of every supplier
  customer <id>        outstanding balance of one customer
  supplier <id>        outstanding balance of one supplier
  accounts             account balances tied back to payments and receipts
  stock                current stock against the stock ledger
  movements <itemId>   stock ledger history of one item`

// ErrUsage is returned for unknown commands or missing arguments.
var ErrUsage = errors.New("invalid usage")

// Run executes a one-shot report command and writes the table to out.
// args is os.Args[1:]; the first element is the command name.
func Run(ctx context.Context, l *app.Ledger, out io.Writer, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}

	switch args[0] {
	case "customers":
		balances, err := l.Reports.CustomerBalances(ctx)
		if err != nil {
			return fmt.Errorf("customer balances: %w", err)
		}
		printCustomerBalances(out, balances)

	case "suppliers":
		balances, err := l.Reports.SupplierBalances(ctx)
		if err != nil {
			return fmt.Errorf("supplier balances: %w", err)
		}
		printSupplierBalances(out, balances)

	case "customer":
		id, err := idArg(args)
		if err != nil {
			return err
		}
		b, err := l.Reports.CustomerBalance(ctx, id)
		if err != nil {
			return err
		}
		printCustomerBalances(out, []core.CustomerBalance{*b})

	case "supplier":
		id, err := idArg(args)
		if err != nil {
			return err
		}
		b, err := l.Reports.SupplierBalance(ctx, id)
		if err != nil {
			return err
		}
		printSupplierBalances(out, []core.SupplierBalance{*b})

	case "accounts":
		summaries, err := l.Reports.AccountSummaries(ctx)
		if err != nil {
			return fmt.Errorf("account summaries: %w", err)
		}
		printAccounts(out, summaries)

	case "stock":
		lines, err := l.Reports.StockSummary(ctx)
		if err != nil {
			return fmt.Errorf("stock summary: %w", err)
		}
		printStock(out, lines)

	case "movements":
		id, err := idArg(args)
		if err != nil {
			return err
		}
		moves, err := l.Stock.MovementsForItem(ctx, id)
		if err != nil {
			return err
		}
		printMovements(out, id, moves)

	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
	return nil
}

func idArg(args []string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("%w: %s needs an id", ErrUsage, args[0])
	}
	id, err := strconv.Atoi(args[1])
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q is not a valid id", ErrUsage, args[1])
	}
	return id, nil
}

func header(out io.Writer, title string, width int) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", width))
	fmt.Fprintf(out, "  %s\n", title)
	fmt.Fprintln(out, strings.Repeat("=", width))
}

func printCustomerBalances(out io.Writer, balances []core.CustomerBalance) {
	header(out, "CUSTOMER BALANCES", 78)
	fmt.Fprintf(out, "  %-5s %-28s %13s %13s %13s\n", "ID", "CUSTOMER", "SALES", "RECEIPTS", "OUTSTANDING")
	fmt.Fprintln(out, strings.Repeat("-", 78))
	for _, b := range balances {
		fmt.Fprintf(out, "  %-5d %-28s %13s %13s %13s\n", b.CustomerID, truncate(b.CustomerName, 28),
			b.TotalSales.StringFixed(2), b.TotalReceipts.StringFixed(2), b.Outstanding.StringFixed(2))
	}
	fmt.Fprintln(out, strings.Repeat("=", 78))
}

func printSupplierBalances(out io.Writer, balances []core.SupplierBalance) {
	header(out, "SUPPLIER BALANCES", 78)
	fmt.Fprintf(out, "  %-5s %-28s %13s %13s %13s\n", "ID", "SUPPLIER", "PURCHASES", "PAYMENTS", "OUTSTANDING")
	fmt.Fprintln(out, strings.Repeat("-", 78))
	for _, b := range balances {
		fmt.Fprintf(out, "  %-5d %-28s %13s %13s %13s\n", b.SupplierID, truncate(b.SupplierName, 28),
			b.TotalPurchases.StringFixed(2), b.TotalPayments.StringFixed(2), b.Outstanding.StringFixed(2))
	}
	fmt.Fprintln(out, strings.Repeat("=", 78))
}

func printAccounts(out io.Writer, summaries []core.AccountSummary) {
	header(out, "ACCOUNTS", 88)
	fmt.Fprintf(out, "  %-5s %-22s %12s %12s %12s %12s %4s\n", "ID", "BANK / NUMBER", "OPENING", "PAID OUT", "RECEIVED", "BALANCE", "OK")
	fmt.Fprintln(out, strings.Repeat("-", 88))
	for _, a := range summaries {
		fmt.Fprintf(out, "  %-5d %-22s %12s %12s %12s %12s %4s\n", a.AccountID,
			truncate(a.BankName+" "+a.AccountNumber, 22),
			a.OpeningBalance.StringFixed(2), a.TotalPayments.StringFixed(2),
			a.TotalReceipts.StringFixed(2), a.Balance.StringFixed(2), yesNo(a.Consistent))
	}
	fmt.Fprintln(out, strings.Repeat("=", 88))
}

func printStock(out io.Writer, lines []core.StockSummaryLine) {
	header(out, "STOCK", 78)
	fmt.Fprintf(out, "  %-5s %-26s %-6s %11s %11s %11s %4s\n", "ID", "ITEM", "UNIT", "OPENING", "LEDGER", "CURRENT", "OK")
	fmt.Fprintln(out, strings.Repeat("-", 78))
	for _, l := range lines {
		fmt.Fprintf(out, "  %-5d %-26s %-6s %11s %11s %11s %4s\n", l.ItemID, truncate(l.Name, 26), truncate(l.Unit, 6),
			l.OpeningStock.String(), l.LedgerQuantity.String(), l.CurrentStock.String(), yesNo(l.Consistent))
	}
	fmt.Fprintln(out, strings.Repeat("=", 78))
}

func printMovements(out io.Writer, itemID int, moves []core.StockTransaction) {
	header(out, fmt.Sprintf("STOCK MOVEMENTS - ITEM %d", itemID), 62)
	fmt.Fprintf(out, "  %-8s %-12s %-10s %10s %12s\n", "ID", "DATE", "TYPE", "DOCUMENT", "QUANTITY")
	fmt.Fprintln(out, strings.Repeat("-", 62))
	for _, m := range moves {
		fmt.Fprintf(out, "  %-8d %-12s %-10s %10d %12s\n", m.ID, m.Date, m.Type, m.RelatedID, m.Quantity.String())
	}
	if len(moves) == 0 {
		fmt.Fprintln(out, "  (no movements)")
	}
	fmt.Fprintln(out, strings.Repeat("=", 62))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "~"
}

func yesNo(ok bool) string {
	if ok {
		return "yes"
	}
	return "NO"
}
