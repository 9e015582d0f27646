package format

import (
	"fmt"
	"strings"
	"time"
)

// currencySymbols символы известных валют, для остальных
// используется код валюты с пробелом
var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// Currency форматирует сумму в минимальных единицах валюты для отображения.
// Сумма делится на 100, дробная часть всегда две цифры, целая часть
// группируется по индийской системе: Currency(123456789, "INR") == "₹12,34,567.89".
func Currency(amount int64, currency string) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	symbol, ok := currencySymbols[currency]
	if !ok {
		symbol = currency + " "
	}

	major := amount / 100
	minor := amount % 100

	return fmt.Sprintf("%s%s%s.%02d", sign, symbol, groupIndian(major), minor)
}

// Number форматирует целое число с индийской группировкой разрядов
func Number(n int64) string {
	if n < 0 {
		return "-" + groupIndian(-n)
	}
	return groupIndian(n)
}

// groupIndian группирует разряды по индийской системе:
// последние три цифры, далее по две (12,34,567)
func groupIndian(n int64) string {
	digits := fmt.Sprintf("%d", n)
	if len(digits) <= 3 {
		return digits
	}

	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	groups = append([]string{head}, groups...)

	return strings.Join(groups, ",") + "," + tail
}

// DateTime форматирует Unix-время для отображения: "15 Jan 2024, 10:30 AM".
// Время всегда в UTC, чтобы экспорт был детерминирован.
func DateTime(epoch int64) string {
	return time.Unix(epoch, 0).UTC().Format("02 Jan 2006, 03:04 PM")
}

// Date форматирует Unix-время как дату: "15 Jan 2024"
func Date(epoch int64) string {
	return time.Unix(epoch, 0).UTC().Format("02 Jan 2006")
}

// Truncate обрезает строку до maxLen символов с многоточием
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

// MaskEmail маскирует локальную часть адреса: "o***s@example.com"
func MaskEmail(email string) string {
	local, domain, found := strings.Cut(email, "@")
	if !found || len(local) <= 2 {
		return email
	}
	return fmt.Sprintf("%c***%c@%s", local[0], local[len(local)-1], domain)
}

// MaskPhone оставляет последние четыре цифры номера: "****3210"
func MaskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return "****" + phone[len(phone)-4:]
}
