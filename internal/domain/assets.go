package domain

// MintSOL es el pseudo-mint del activo nativo (wrapped SOL).
const MintSOL = "So11111111111111111111111111111111111111112"

// LamportsPerSOL es el factor de conversión lamports → SOL.
const LamportsPerSOL = 1_000_000_000.0

// AssetInfo describe un activo conocido: su símbolo legible, el id canónico
// del price source (CoinGecko) y si es un stablecoin anclado al USD.
type AssetInfo struct {
	Symbol      string
	CoinGeckoID string
	Stable      bool
}

// knownAssets es la tabla fija mint → activo. La posee el reconstructor:
// los adapters no deciden qué id canónico usa el price source.
var knownAssets = map[string]AssetInfo{
	MintSOL: {Symbol: "SOL", CoinGeckoID: "solana"},
	"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v": {Symbol: "USDC", CoinGeckoID: "usd-coin", Stable: true},
	"Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB": {Symbol: "USDT", CoinGeckoID: "tether", Stable: true},
	"mSoLzYCxHdYgdzU16g5QSh3i5K3z3KZK7ytfqcJm7So":  {Symbol: "mSOL", CoinGeckoID: "msol"},
	"7vfCXTUXx5WJV5JADk17DUJ4ksgau7utNKj4b963voxs": {Symbol: "WETH", CoinGeckoID: "ethereum"},
	"3NZ9JMVBmGAqocybic2c7LQCJScmgsAZ6vQqTDzcqmJh": {Symbol: "WBTC", CoinGeckoID: "bitcoin"},
	"DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263": {Symbol: "BONK", CoinGeckoID: "bonk"},
	"JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN":  {Symbol: "JUP", CoinGeckoID: "jupiter-exchange-solana"},
}

// LookupAsset devuelve la info del activo y si es conocido.
func LookupAsset(assetID string) (AssetInfo, bool) {
	info, ok := knownAssets[assetID]
	return info, ok
}

// AssetSymbol devuelve el símbolo legible, o el mint acortado si no es conocido.
func AssetSymbol(assetID string) string {
	if info, ok := knownAssets[assetID]; ok {
		return info.Symbol
	}
	return shortMint(assetID)
}

// IsStable indica si el activo está anclado 1:1 al USD.
// Los stables resuelven a precio exacto 1 sin pasar por el price source.
func IsStable(assetID string) bool {
	info, ok := knownAssets[assetID]
	return ok && info.Stable
}

// shortMint acorta un mint desconocido a algo legible en símbolos y tablas.
func shortMint(mint string) string {
	if len(mint) <= 8 {
		return mint
	}
	return mint[:4] + ".." + mint[len(mint)-4:]
}
