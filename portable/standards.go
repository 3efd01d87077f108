package portable

var chainStandards = map[Chain][]Standard{
	ChainBSV:      {StandardBSV20, StandardBSV21, StandardOrdinals},
	ChainBitcoin:  {StandardBRC20, StandardOrdinals},
	ChainEthereum: {StandardERC20, StandardERC721, StandardERC1155},
	ChainSolana:   {StandardSPL, StandardMetaplex},
	ChainPolygon:  {StandardERC20, StandardERC721, StandardERC1155},
	ChainBase:     {StandardERC20, StandardERC721, StandardERC1155},
}

var explorers = map[Chain]string{
	ChainBSV:      "https://whatsonchain.com",
	ChainBitcoin:  "https://mempool.space",
	ChainEthereum: "https://etherscan.io",
	ChainSolana:   "https://solscan.io",
	ChainPolygon:  "https://polygonscan.com",
	ChainBase:     "https://basescan.org",
}

// StandardsForChain lists the token standards native to chain.
func StandardsForChain(chain Chain) []Standard {
	return append([]Standard(nil), chainStandards[chain]...)
}

func IsNFTStandard(s Standard) bool {
	switch s {
	case StandardERC721, StandardERC1155, StandardMetaplex, StandardOrdinals, StandardBSV21:
		return true
	}
	return false
}

func IsFungibleStandard(s Standard) bool {
	switch s {
	case StandardBSV20, StandardBRC20, StandardERC20, StandardSPL:
		return true
	}
	return false
}

// ExplorerURL returns the block explorer base URL of chain, or "" if unknown.
func ExplorerURL(chain Chain) string {
	return explorers[chain]
}

// TokenURL links the token on its chain's explorer. Contract tokens link to
// the contract page; inscription tokens link to the inscription.
func TokenURL(t *Token) (string, bool) {
	explorer := ExplorerURL(t.Chain)
	if t.ContractAddress != "" {
		switch t.Chain {
		case ChainEthereum, ChainPolygon, ChainBase, ChainSolana:
			return explorer + "/token/" + t.ContractAddress, true
		}
	}
	if t.InscriptionID != "" {
		switch t.Chain {
		case ChainBSV:
			return explorer + "/tx/" + t.InscriptionID, true
		case ChainBitcoin:
			return "https://ordinals.com/inscription/" + t.InscriptionID, true
		}
	}
	return "", false
}
