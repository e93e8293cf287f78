package services

import (
	"sort"
	"strings"
)

// Bank is a settlement destination a seller can list in their bank details.
type Bank struct {
	Code string `json:"code" example:"058"`
	Name string `json:"name" example:"Guaranty Trust Bank"`
}

var nigerianBanks = []Bank{
	{Code: "044", Name: "Access Bank"},
	{Code: "023", Name: "Citibank Nigeria"},
	{Code: "050", Name: "Ecobank Nigeria"},
	{Code: "070", Name: "Fidelity Bank"},
	{Code: "011", Name: "First Bank of Nigeria"},
	{Code: "214", Name: "First City Monument Bank"},
	{Code: "00103", Name: "Globus Bank"},
	{Code: "058", Name: "Guaranty Trust Bank"},
	{Code: "301", Name: "Jaiz Bank"},
	{Code: "082", Name: "Keystone Bank"},
	{Code: "076", Name: "Polaris Bank"},
	{Code: "101", Name: "Providus Bank"},
	{Code: "221", Name: "Stanbic IBTC Bank"},
	{Code: "232", Name: "Sterling Bank"},
	{Code: "032", Name: "Union Bank of Nigeria"},
	{Code: "033", Name: "United Bank For Africa"},
	{Code: "215", Name: "Unity Bank"},
	{Code: "035", Name: "Wema Bank"},
	{Code: "057", Name: "Zenith Bank"},
	{Code: "50211", Name: "Kuda Bank"},
	{Code: "090405", Name: "Moniepoint MFB"},
	{Code: "100004", Name: "Opay"},
	{Code: "100033", Name: "PalmPay"},
	{Code: "100002", Name: "Paga"},
	{Code: "090110", Name: "VFD Microfinance Bank"},
	{Code: "090286", Name: "Safe Haven MFB"},
}

// BankDirectory lists the banks and wallets sellers can receive naira into.
type BankDirectory struct {
	banks  []Bank
	byCode map[string]Bank
}

func NewBankDirectory() *BankDirectory {
	banks := make([]Bank, len(nigerianBanks))
	copy(banks, nigerianBanks)
	sort.Slice(banks, func(i, j int) bool { return banks[i].Name < banks[j].Name })

	byCode := make(map[string]Bank, len(banks))
	for _, b := range banks {
		byCode[b.Code] = b
	}
	return &BankDirectory{banks: banks, byCode: byCode}
}

// Banks returns the directory sorted by name. Callers get their own copy.
func (d *BankDirectory) Banks() []Bank {
	out := make([]Bank, len(d.banks))
	copy(out, d.banks)
	return out
}

func (d *BankDirectory) Lookup(code string) (Bank, bool) {
	b, ok := d.byCode[strings.TrimSpace(code)]
	return b, ok
}
