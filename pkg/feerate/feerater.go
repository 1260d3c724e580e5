package feerate

type FeeRater interface {
	//GetFeeRate returns the current fee rate in satoshi per vbyte
	GetFeeRate() (int64, error)
}
