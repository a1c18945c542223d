package pendingvalidation

import (
	"encoding/json"

	"github.com/archethic-network/mining-core/inter"
)

// rule is the tagged-enum-with-validate-method pattern Design Note §9
// calls for: one small value type per transaction class, avoiding
// open-ended inheritance.
type rule interface {
	validate(tx inter.Transaction, ctx *Context) error
}

type defaultRule struct{}

func (defaultRule) validate(inter.Transaction, *Context) error { return nil }

type nodeContent struct {
	IP           string `json:"ip"`
	Port         int    `json:"port"`
	HTTPPort     int    `json:"http_port"`
	Transport    string `json:"transport"`
	RewardAddr   string `json:"reward_address"`
	OriginPK     string `json:"origin_public_key"`
	Cert         string `json:"certificate"`
}

type nodeRule struct{}

func (nodeRule) validate(tx inter.Transaction, ctx *Context) error {
	var content nodeContent
	if err := json.Unmarshal(tx.Data.Content, &content); err != nil {
		return newError(InvalidContent, "node content does not decode")
	}
	if ctx.NodeLookup != nil {
		if existingPK, found := ctx.NodeLookup(content.IP, content.Port); found {
			if existingPK.String() != tx.PreviousPublicKey.String() {
				return newError(DuplicateNode, "ip/port already bound to a different node chain")
			}
		}
	}
	return nil
}

type nodeSharedSecretsRule struct{}

func (nodeSharedSecretsRule) validate(tx inter.Transaction, ctx *Context) error {
	if len(tx.Data.Ownerships) != 1 {
		return newError(InvalidContent, "node_shared_secrets requires exactly one ownership")
	}
	if ctx.AuthorizedNodes != nil {
		for pkHex := range tx.Data.Ownerships[0].AuthorizedKeys {
			if !ctx.AuthorizedNodes[pkHex] {
				return newError(InvalidContent, "authorized_keys contains an unrecognized node")
			}
		}
	}
	return nil
}

type originRule struct{}

type originContent struct {
	OriginPK string `json:"origin_public_key"`
	Cert     string `json:"certificate"`
}

func (originRule) validate(tx inter.Transaction, ctx *Context) error {
	var content originContent
	if err := json.Unmarshal(tx.Data.Content, &content); err != nil {
		return newError(InvalidContent, "origin content does not decode")
	}
	return nil
}

type oracleRule struct{}

func (oracleRule) validate(tx inter.Transaction, ctx *Context) error {
	if ctx.ScheduleChecker != nil && tx.ValidationStamp != nil {
		if !ctx.ScheduleChecker("oracle", tx.ValidationStamp.Timestamp) {
			return newError(InvalidSchedule, "oracle trigger time does not match current schedule")
		}
	}
	if len(tx.Data.Content) == 0 {
		return newError(InvalidContent, "oracle content must not be empty")
	}
	return nil
}

type codeProposalRule struct{}

func (codeProposalRule) validate(tx inter.Transaction, ctx *Context) error {
	if len(tx.Data.Content) == 0 {
		return newError(InvalidContent, "code_proposal requires a diff payload")
	}
	return nil
}

type codeApprovalRule struct{}

func (codeApprovalRule) validate(tx inter.Transaction, ctx *Context) error {
	if ctx.TechnicalCouncil != nil && !ctx.TechnicalCouncil.Contains(tx.PreviousPublicKey) {
		return newError(InvalidContent, "signer is not a technical council member")
	}
	return nil
}

type mintRewardsRule struct{}

func (mintRewardsRule) validate(tx inter.Transaction, ctx *Context) error {
	if len(tx.Data.Ledger) == 0 {
		return newError(InvalidContent, "mint_rewards requires at least one movement")
	}
	return nil
}

type nodeRewardsRule struct{}

func (nodeRewardsRule) validate(tx inter.Transaction, ctx *Context) error {
	if len(tx.Data.Ledger) == 0 {
		return newError(InvalidContent, "node_rewards requires a reward distribution")
	}
	return nil
}

type keychainRule struct{}

func (keychainRule) validate(tx inter.Transaction, ctx *Context) error {
	if len(tx.Data.Content) == 0 {
		return newError(InvalidContent, "keychain requires a DID document")
	}
	return nil
}

type keychainAccessRule struct{}

func (keychainAccessRule) validate(tx inter.Transaction, ctx *Context) error {
	if len(tx.Data.Ownerships) == 0 {
		return newError(InvalidContent, "keychain_access requires an authorizing ownership")
	}
	for _, o := range tx.Data.Ownerships {
		if _, ok := o.AuthorizedFor(tx.PreviousPublicKey); !ok {
			return newError(InvalidContent, "keychain_access ownership does not authorize previous_public_key")
		}
	}
	return nil
}

var rules = map[inter.TxType]rule{
	inter.TxTransfer:            defaultRule{},
	inter.TxToken:                tokenRule{},
	inter.TxNode:                 nodeRule{},
	inter.TxNodeSharedSecrets:    nodeSharedSecretsRule{},
	inter.TxOrigin:               originRule{},
	inter.TxOracle:               oracleRule{},
	inter.TxOracleSummary:        oracleRule{},
	inter.TxCodeProposal:         codeProposalRule{},
	inter.TxCodeApproval:         codeApprovalRule{},
	inter.TxMintRewards:          mintRewardsRule{},
	inter.TxNodeRewards:          nodeRewardsRule{},
	inter.TxKeychain:             keychainRule{},
	inter.TxKeychainAccess:       keychainAccessRule{},
	inter.TxBeacon:               defaultRule{},
}

// Validate runs the universal checks plus the transaction's class rule
// (spec.md §4.2).
func Validate(tx inter.Transaction, ctx *Context) error {
	if err := verifyPreviousSignature(tx); err != nil {
		return err
	}
	if err := verifyContentSize(tx, ctx); err != nil {
		return err
	}
	if err := verifyContractParses(tx, ctx); err != nil {
		return err
	}
	if err := verifyNetworkChainContinuity(tx, ctx); err != nil {
		return err
	}

	r, ok := rules[tx.Type]
	if !ok {
		r = defaultRule{}
	}
	return r.validate(tx, ctx)
}
