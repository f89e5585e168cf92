package transaction

// Transaction is a ledger transaction as seen by the handler: an opaque
// payload and the hex encoded public key of the key that signed the
// transaction header.
type Transaction interface {
	Payload() []byte
	SignerPublicKey() string
}

type transaction struct {
	payload []byte
	signer  string
}

func (t transaction) Payload() []byte {
	return t.payload
}

func (t transaction) SignerPublicKey() string {
	return t.signer
}

func NewTransaction(payload []byte, signerPublicKey string) Transaction {
	return transaction{payload: payload, signer: signerPublicKey}
}
