package srp

import (
	"crypto/sha256"
	"errors"
	"math/big"
)

// Group defines a public type used by goSRP APIs.
//
// Group instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Group struct {
	Name string
	N    *big.Int
	G    *big.Int
}

const hex3072 = "" +
	"FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD129024E088A67CC74" +
	"020BBEA63B139B22514A08798E3404DDEF9519B3CD3A431B302B0A6DF25F1437" +
	"4FE1356D6D51C245E485B576625E7EC6F44C42E9A637ED6B0BFF5CB6F406B7ED" +
	"EE386BFB5A899FA5AE9F24117C4B1FE649286651ECE45B3DC2007CB8A163BF05" +
	"98DA48361C55D39A69163FA8FD24CF5F83655D23DCA3AD961C62F356208552BB" +
	"9ED529077096966D670C354E4ABC9804F1746C08CA18217C32905E462E36CE3B" +
	"E39E772C180E86039B2783A2EC07A28FB5C55DF06F4C52C9DE2BCBF695581718" +
	"3995497CEA956AE515D2261898FA051015728E5A8AAAC42DAD33170D04507A33" +
	"A85521ABDF1CBA64ECFB850458DBEF0A8AEA71575D060C7DB3970F85A6E1E4C7" +
	"ABF5AE8CDB0933D71E8C94E04A25619DCEE3D2261AD2EE6BF12FFA06D98A0864" +
	"D87602733EC86A64521F2B18177B200CBBE117577A615D6C770988C0BAD946E2" +
	"08E24FA074E5AB3143DB5BFCE0FD108E4B82D120A93AD2CAFFFFFFFFFFFFFFFF"

const hex4096 = "" +
	"FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD129024E088A67CC74" +
	"020BBEA63B139B22514A08798E3404DDEF9519B3CD3A431B302B0A6DF25F1437" +
	"4FE1356D6D51C245E485B576625E7EC6F44C42E9A637ED6B0BFF5CB6F406B7ED" +
	"EE386BFB5A899FA5AE9F24117C4B1FE649286651ECE45B3DC2007CB8A163BF05" +
	"98DA48361C55D39A69163FA8FD24CF5F83655D23DCA3AD961C62F356208552BB" +
	"9ED529077096966D670C354E4ABC9804F1746C08CA18217C32905E462E36CE3B" +
	"E39E772C180E86039B2783A2EC07A28FB5C55DF06F4C52C9DE2BCBF695581718" +
	"3995497CEA956AE515D2261898FA051015728E5A8AAAC42DAD33170D04507A33" +
	"A85521ABDF1CBA64ECFB850458DBEF0A8AEA71575D060C7DB3970F85A6E1E4C7" +
	"ABF5AE8CDB0933D71E8C94E04A25619DCEE3D2261AD2EE6BF12FFA06D98A0864" +
	"D87602733EC86A64521F2B18177B200CBBE117577A615D6C770988C0BAD946E2" +
	"08E24FA074E5AB3143DB5BFCE0FD108E4B82D120A92108011A723C12A787E6D7" +
	"88719A10BDBA5B2699C327186AF4E23C1A946834B6150BDA2583E9CA2AD44CE8" +
	"DBBBC2DB04DE8EF92E8EFC141FBECAA6287C59474E6BC05D99B2964FA090C3A2" +
	"233BA186515BE7ED1F612970CEE2D7AFB81BDD762170481CD0069127D5B05AA9" +
	"93B4EA988D8FDDC186FFB7DC90A6C08F4DF435C934063199FFFFFFFFFFFFFFFF"

// Group3072 is the RFC 5054 3072-bit group (RFC 3526 prime, g = 5).
var Group3072 = mustGroup("rfc5054.3072", hex3072, 5)

// Group4096 is the RFC 5054 4096-bit group (RFC 3526 prime, g = 5).
var Group4096 = mustGroup("rfc5054.4096", hex4096, 5)

// ErrUnknownGroup is an exported constant or variable used by the authentication engine.
var ErrUnknownGroup = errors.New("unknown srp group")

func mustGroup(name, hexN string, g int64) *Group {
	n, ok := new(big.Int).SetString(hexN, 16)
	if !ok {
		panic("srp: invalid group prime " + name)
	}
	return &Group{Name: name, N: n, G: big.NewInt(g)}
}

// GroupByName resolves a configured group name to its parameters.
//
// GroupByName may return an error when input validation, dependency calls, or security checks fail.
// GroupByName does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func GroupByName(name string) (*Group, error) {
	switch name {
	case Group3072.Name:
		return Group3072, nil
	case Group4096.Name:
		return Group4096, nil
	default:
		return nil, ErrUnknownGroup
	}
}

// pad left-pads v to the byte length of N for hashing.
func (g *Group) pad(v *big.Int) []byte {
	size := (g.N.BitLen() + 7) / 8
	return v.FillBytes(make([]byte, size))
}

// multiplier computes the SRP-6a parameter k = H(N | PAD(g)).
func (g *Group) multiplier() *big.Int {
	return hashInt(g.N.Bytes(), g.pad(g.G))
}

// scrambler computes u = H(PAD(A) | PAD(B)).
func (g *Group) scrambler(clientPublic, serverPublic *big.Int) *big.Int {
	return hashInt(g.pad(clientPublic), g.pad(serverPublic))
}

func hashParts(parts ...[]byte) []byte {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}

func hashInt(parts ...[]byte) *big.Int {
	return new(big.Int).SetBytes(hashParts(parts...))
}
