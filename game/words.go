package game

import (
	"bufio"
	"errors"
	"math/rand"
	"os"
)

// WordPicker draws the secret word for a turn. Uniform, with replacement,
// repeats across turns are allowed.
type WordPicker interface {
	Pick() string
}

type wordPool struct {
	words []string
}

func NewWordPool(words []string) (*wordPool, error) {
	if len(words) == 0 {
		return nil, errors.New("empty word pool")
	}
	return &wordPool{words: words}, nil
}

func (p *wordPool) Pick() string {
	return p.words[rand.Intn(len(p.words))]
}

// LoadWordsFile reads a file with one word per line, skipping blank lines.
func LoadWordsFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			words = append(words, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, errors.New("no words in " + path)
	}
	return words, nil
}

// DefaultWords is the built-in pool used when no words file is configured.
func DefaultWords() []string {
	return []string{
		"casa", "perro", "gato", "sol", "luna", "estrella", "montaña",
		"playa", "coche", "bicicleta", "libro", "flor", "árbol", "nube",
		"pez", "barco", "avión", "tren", "reloj", "silla", "mesa",
		"ventana", "puerta", "zapato", "sombrero", "guitarra", "piano",
		"pelota", "globo", "helado", "pizza", "manzana", "plátano",
		"elefante", "jirafa", "tortuga", "mariposa", "caracol", "robot",
		"castillo", "puente", "cohete", "paraguas", "fantasma", "dragón",
	}
}
