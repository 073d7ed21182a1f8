package service

import (
	"strings"

	"github.com/Subakiz/ai-investment-manager/internal/entity"
)

// idxSuffix is the Yahoo Finance suffix for IDX-listed stocks.
const idxSuffix = ".JK"

type lq45Entry struct {
	symbol  string
	company string
	sector  string
}

// lq45Universe is the LQ45 constituent list as of August 2025.
var lq45Universe = []lq45Entry{
	{"BBCA.JK", "Bank Central Asia Tbk", "Banking"},
	{"BBRI.JK", "Bank Rakyat Indonesia Tbk", "Banking"},
	{"BMRI.JK", "Bank Mandiri Tbk", "Banking"},
	{"BBNI.JK", "Bank Negara Indonesia Tbk", "Banking"},
	{"BBTN.JK", "Bank Tabungan Negara Tbk", "Banking"},
	{"BRIS.JK", "Bank Syariah Indonesia Tbk", "Banking"},
	{"TLKM.JK", "Telkom Indonesia Tbk", "Telecommunications"},
	{"EXCL.JK", "XL Axiata Tbk", "Telecommunications"},
	{"ISAT.JK", "Indosat Ooredoo Hutchison Tbk", "Telecommunications"},
	{"UNVR.JK", "Unilever Indonesia Tbk", "Consumer Goods"},
	{"INDF.JK", "Indofood Sukses Makmur Tbk", "Consumer Goods"},
	{"ICBP.JK", "Indofood CBP Sukses Makmur Tbk", "Consumer Goods"},
	{"KLBF.JK", "Kalbe Farma Tbk", "Consumer Goods"},
	{"MYOR.JK", "Mayora Indah Tbk", "Consumer Goods"},
	{"ULTJ.JK", "Ultra Jaya Milk Industry Tbk", "Consumer Goods"},
	{"PTBA.JK", "Bukit Asam Tbk", "Energy & Mining"},
	{"ADRO.JK", "Adaro Energy Tbk", "Energy & Mining"},
	{"ITMG.JK", "Indo Tambangraya Megah Tbk", "Energy & Mining"},
	{"PTRO.JK", "Petrosea Tbk", "Energy & Mining"},
	{"MEDC.JK", "Medco Energi Internasional Tbk", "Energy & Mining"},
	{"JSMR.JK", "Jasa Marga Tbk", "Infrastructure"},
	{"WIKA.JK", "Wijaya Karya Tbk", "Infrastructure"},
	{"WSKT.JK", "Waskita Karya Tbk", "Infrastructure"},
	{"PTPP.JK", "PP (Persero) Tbk", "Infrastructure"},
	{"BSDE.JK", "Bumi Serpong Damai Tbk", "Property"},
	{"LPKR.JK", "Lippo Karawaci Tbk", "Property"},
	{"PWON.JK", "Pakuwon Jati Tbk", "Property"},
	{"SMRA.JK", "Summarecon Agung Tbk", "Property"},
	{"GOTO.JK", "GoTo Gojek Tokopedia Tbk", "Technology"},
	{"BUKA.JK", "Bukalapak.com Tbk", "Technology"},
	{"ACES.JK", "Ace Hardware Indonesia Tbk", "Retail"},
	{"MAPI.JK", "Mitra Adiperkasa Tbk", "Retail"},
	{"HERO.JK", "Hero Supermarket Tbk", "Retail"},
	{"ASII.JK", "Astra International Tbk", "Automotive"},
	{"AUTO.JK", "Astra Otoparts Tbk", "Automotive"},
	{"INDS.JK", "Indospring Tbk", "Automotive"},
	{"SMGR.JK", "Semen Indonesia Tbk", "Cement"},
	{"INTP.JK", "Indocement Tunggal Prakasa Tbk", "Cement"},
	{"KAEF.JK", "Kimia Farma Tbk", "Pharmaceuticals"},
	{"PYFA.JK", "Pyridam Farma Tbk", "Pharmaceuticals"},
	{"SCMA.JK", "Surya Citra Media Tbk", "Media"},
	{"MNCN.JK", "Media Nusantara Citra Tbk", "Media"},
	{"AALI.JK", "Astra Agro Lestari Tbk", "Agriculture"},
	{"SIMP.JK", "Salim Ivomas Pratama Tbk", "Agriculture"},
	{"LSIP.JK", "PP London Sumatra Indonesia Tbk", "Agriculture"},
}

// LQ45Stocks returns the seed universe as stock entities.
func LQ45Stocks() []entity.Stock {
	stocks := make([]entity.Stock, len(lq45Universe))
	for i, e := range lq45Universe {
		stocks[i] = entity.Stock{
			Symbol:      e.symbol,
			CompanyName: e.company,
			Sector:      e.sector,
			IsLQ45:      true,
			Currency:    "IDR",
		}
	}
	return stocks
}

// FormatIDXSymbol appends the .JK suffix when missing.
func FormatIDXSymbol(symbol string) string {
	if !strings.HasSuffix(symbol, idxSuffix) {
		return symbol + idxSuffix
	}
	return symbol
}

// CleanIDXSymbol strips the .JK suffix.
func CleanIDXSymbol(symbol string) string {
	return strings.TrimSuffix(symbol, idxSuffix)
}
