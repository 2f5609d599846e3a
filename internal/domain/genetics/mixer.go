package genetics

import (
	"encoding/binary"
	"math/big"

	"golang.org/x/crypto/sha3"
)

const (
	DefaultDrawBits        = 3
	DefaultEvolveThreshold = 2
)

// Mixer deriva los genes de un hijo a partir de los padres y un seed.
// DrawBits es el ancho del draw de ascensión; el draw asciende si es < EvolveThreshold.
type Mixer struct {
	DrawBits        uint
	EvolveThreshold uint64
}

func DefaultMixer() Mixer {
	return Mixer{
		DrawBits:        DefaultDrawBits,
		EvolveThreshold: DefaultEvolveThreshold,
	}
}

// Ascend devuelve el trait ascendido de un par {2k, 2k+1} (en cualquier orden) o 0.
func (m Mixer) Ascend(trait1, trait2 uint8, draw uint64) uint8 {
	k, ok := ascensionPair(trait1, trait2)
	if !ok {
		return 0
	}
	if draw >= m.EvolveThreshold {
		return 0
	}
	return AscendedBase + k
}

// Mix combina traits slot por slot.
//
// Por cada slot: si los padres forman un par ascendible se consumen DrawBits bits
// como draw; si no hubo ascensión se consume 1 bit que elige al padre (0 = A, 1 = B).
func (m Mixer) Mix(a, b Traits, seed *big.Int) Traits {
	ga, _ := Encode(a)
	gb, _ := Encode(b)
	bits := newBitReader(keccakWords(seed, new(big.Int).SetUint64(uint64(ga)), new(big.Int).SetUint64(uint64(gb))))

	var child Traits
	for i := 0; i < TraitCount; i++ {
		if _, ok := ascensionPair(a[i], b[i]); ok {
			if asc := m.Ascend(a[i], b[i], bits.take(m.DrawBits)); asc != 0 {
				child[i] = asc
				continue
			}
		}
		if bits.take(1) == 0 {
			child[i] = a[i]
		} else {
			child[i] = b[i]
		}
	}
	return child
}

// MixGenes es Mix sobre la forma empaquetada.
func (m Mixer) MixGenes(genesA, genesB Genes, seed *big.Int) (Genes, error) {
	a, err := Decode(genesA)
	if err != nil {
		return 0, err
	}
	b, err := Decode(genesB)
	if err != nil {
		return 0, err
	}
	return Encode(m.Mix(a, b, seed))
}

// Ascend con el mixer por defecto.
func Ascend(trait1, trait2 uint8, draw uint64) uint8 {
	return DefaultMixer().Ascend(trait1, trait2, draw)
}

// MixGenes con el mixer por defecto.
func MixGenes(genesA, genesB Genes, seed *big.Int) (Genes, error) {
	return DefaultMixer().MixGenes(genesA, genesB, seed)
}

// DeriveWord hashea seed con salts enteros; sirve para draws derivados
// (genes de launchpad, clase del hijo) sin pedir más randomness.
func DeriveWord(seed *big.Int, salts ...uint64) *big.Int {
	words := make([]*big.Int, 0, len(salts)+1)
	words = append(words, seed)
	for _, s := range salts {
		words = append(words, new(big.Int).SetUint64(s))
	}
	h := keccakWords(words...)
	return new(big.Int).SetBytes(h[:])
}

// RandomTraits toma 2 bits por slot del word (traits base 0..3).
func RandomTraits(word *big.Int) Traits {
	bits := newBitReader(wordBytes(word))
	var t Traits
	for i := 0; i < TraitCount; i++ {
		t[i] = uint8(bits.take(2))
	}
	return t
}

func ascensionPair(t1, t2 uint8) (uint8, bool) {
	lo, hi := t1, t2
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi-lo != 1 || lo%2 != 0 {
		return 0, false
	}
	k := lo / 2
	if AscendedBase+k > MaxTrait {
		return 0, false
	}
	return k, true
}

// keccakWords = keccak256(abi.encodePacked(uint256...)).
func keccakWords(words ...*big.Int) [32]byte {
	h := sha3.NewLegacyKeccak256()
	for _, w := range words {
		b := wordBytes(w)
		h.Write(b[:])
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

var mask256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// wordBytes serializa como uint256 big-endian (mod 2^256).
func wordBytes(w *big.Int) [32]byte {
	var out [32]byte
	if w == nil {
		return out
	}
	new(big.Int).And(w, mask256).FillBytes(out[:])
	return out
}

// bitReader consume un word de 256 bits desde el bit menos significativo.
type bitReader struct {
	word [32]byte
	pos  uint
}

func newBitReader(word [32]byte) *bitReader {
	return &bitReader{word: word}
}

func (r *bitReader) take(n uint) uint64 {
	var v uint64
	for i := uint(0); i < n; i++ {
		p := r.pos + i
		if p >= 256 {
			break
		}
		bit := r.word[31-p/8] >> (p % 8) & 1
		v |= uint64(bit) << i
	}
	r.pos += n
	return v
}

// Uint64 lee los 8 bytes menos significativos del word (para draws módulo n).
func Uint64(word *big.Int) uint64 {
	b := wordBytes(word)
	return binary.BigEndian.Uint64(b[24:])
}
