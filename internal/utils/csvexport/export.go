package csvexport

import (
	"fmt"
	"strings"
	"time"

	"github.com/avc/payments-admin-console/internal/domain"
	"github.com/avc/payments-admin-console/internal/utils/format"
)

// headers фиксированный порядок колонок экспорта
var headers = []string{
	"Payment ID",
	"Order ID",
	"Amount",
	"Currency",
	"Status",
	"Method",
	"Email",
	"Contact",
	"Date",
	"Mode",
}

// Payments сериализует платежи в CSV.
// Каждое поле оборачивается в кавычки, внутренние кавычки удваиваются,
// значения форматируются так же, как на экране.
func Payments(payments []domain.Payment) []byte {
	var b strings.Builder

	writeRow(&b, headers)
	for _, payment := range payments {
		writeRow(&b, []string{
			payment.ID,
			payment.OrderID,
			format.Currency(payment.Amount, payment.Currency),
			payment.Currency,
			domain.StatusLabel(payment.Status),
			domain.MethodLabel(payment.Method),
			payment.Email,
			payment.Contact,
			format.DateTime(payment.CreatedAt),
			strings.ToUpper(string(payment.Mode)),
		})
	}

	return []byte(b.String())
}

// Filename строит имя файла выгрузки: "<basename>_<ISO-дата>.csv"
func Filename(basename string, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", basename, now.UTC().Format("2006-01-02"))
}

// writeRow пишет одну строку CSV, каждое поле в кавычках
func writeRow(b *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(field, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}
