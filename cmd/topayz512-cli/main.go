// Package main provides the topayz512-cli command line interface for
// TOPAY-Z512 KEM and fragmentation operations.
package main

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"time"

	topayz512 "github.com/TOPAY-FOUNDATION/TOPAY-Z512"
	"github.com/TOPAY-FOUNDATION/TOPAY-Z512/core"
	"github.com/TOPAY-FOUNDATION/TOPAY-Z512/fragment"
	"github.com/TOPAY-FOUNDATION/TOPAY-Z512/kem"
)

const appName = "topayz512-cli"

// OutputFormat selects the text encoding for binary values.
type OutputFormat string

const (
	FormatHex    OutputFormat = "hex"
	FormatBase64 OutputFormat = "base64"
)

// CLIConfig holds the flags shared by every subcommand.
type CLIConfig struct {
	Params       topayz512.Params
	OutputFormat OutputFormat
	Verbose      bool
	Timing       bool
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch command := os.Args[1]; command {
	case "help", "--help", "-h":
		printUsage()
	case "version", "--version":
		fmt.Printf("%s version %s\n", appName, topayz512.Version)
	case "info":
		cmdInfo(os.Args[2:])
	case "keygen":
		cmdKeygen(os.Args[2:])
	case "encapsulate", "encap":
		cmdEncapsulate(os.Args[2:])
	case "decapsulate", "decap":
		cmdDecapsulate(os.Args[2:])
	case "fragment":
		cmdFragment(os.Args[2:])
	case "reconstruct":
		cmdReconstruct(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`%s - TOPAY-Z512 Post-Quantum Cryptography CLI

USAGE:
    %s <COMMAND> [OPTIONS]

COMMANDS:
    keygen        Generate a KEM key pair (or a fragmented one with --fragments)
    encapsulate   Create a shared secret and ciphertext from a public key
    decapsulate   Recover the shared secret from a ciphertext
    fragment      Split a file into integrity-checked fragments
    reconstruct   Reassemble fragments into the original file
    info          Show the parameter set and derived sizes
    version       Show version information
    help          Show this help message

OPTIONS:
    --output <file>       Output file prefix (keys/ciphertexts are raw binary)
    --format <hex|base64> Encoding for secrets printed to stdout (default: hex)
    --seed <hex>          32-byte hex seed for deterministic key generation
    --fragments <k>       Component count for fragmented KEM operations
    --timing              Show timing information
    --verbose             Verbose output

EXAMPLES:
    %s keygen --output key
    %s keygen --seed 000102...1f --output key
    %s encapsulate --public-key key.pk --output session
    %s decapsulate --secret-key key.sk --ciphertext session.ct
    %s fragment --input payload.bin --output frag
    %s reconstruct --input frag --count 4 --output payload.bin
`, appName, appName, appName, appName, appName, appName, appName, appName)
}

func cmdInfo(args []string) {
	config := parseConfig(args)
	p := config.Params
	fmt.Printf("Security level:  %s\n", p.Level)
	fmt.Printf("Dimension N:     %d\n", p.N)
	fmt.Printf("Modulus Q:       %d\n", p.Q)
	fmt.Printf("Sigma:           %g\n", p.Sigma)
	fmt.Printf("Public key:      %d bytes\n", p.PublicKeySize())
	fmt.Printf("Secret key:      %d bytes\n", p.SecretKeySize())
	fmt.Printf("Ciphertext:      %d bytes\n", p.CiphertextSize())
	fmt.Printf("Shared secret:   %d bytes\n", p.SecretLength)
	fmt.Printf("Fragment size:   %d bytes\n", p.FragmentSize)
	fmt.Printf("Fragment count:  %d..%d\n", p.MinFragments, p.MaxFragments)
}

func cmdKeygen(args []string) {
	config := parseConfig(args)
	outPrefix := getArg(args, "--output", "-o")
	seedHex := getArg(args, "--seed", "-s")
	if outPrefix == "" {
		fmt.Fprintln(os.Stderr, "Error: --output is required")
		os.Exit(1)
	}

	if kStr := getArg(args, "--fragments", "-k"); kStr != "" {
		k, err := strconv.Atoi(kStr)
		if err != nil || k < 1 {
			fmt.Fprintf(os.Stderr, "Invalid fragment count: %s\n", kStr)
			os.Exit(1)
		}
		fragmentedKeygen(config, k, outPrefix)
		return
	}

	start := time.Now()
	var kp *topayz512.KeyPair
	var err error
	if seedHex != "" {
		var seed []byte
		seed, err = hex.DecodeString(seedHex)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid seed hex: %v\n", err)
			os.Exit(1)
		}
		kp, err = kem.GenerateKeyPairFromSeed(config.Params, seed)
	} else {
		kp, err = kem.GenerateKeyPair(config.Params)
	}
	elapsed := time.Since(start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating key pair: %v\n", err)
		os.Exit(1)
	}
	if config.Timing {
		fmt.Fprintf(os.Stderr, "Key generation took: %v\n", elapsed)
	}

	pkBytes := kem.SerializePublicKey(&kp.PublicKey)
	skBytes := kem.SerializeSecretKey(&kp.SecretKey)
	writeFile(outPrefix+".pk", pkBytes)
	writeFile(outPrefix+".sk", skBytes)
	kp.SecretKey.Zeroize()

	fmt.Printf("Wrote %s.pk (%d bytes) and %s.sk (%d bytes)\n",
		outPrefix, len(pkBytes), outPrefix, len(skBytes))
}

// fragmentedKeygen writes one key pair per component: prefix.pk.0, prefix.sk.0, ...
func fragmentedKeygen(config CLIConfig, k int, outPrefix string) {
	start := time.Now()
	fpk, fsk, err := fragment.KeyGen(config.Params, k)
	elapsed := time.Since(start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating fragmented key pair: %v\n", err)
		os.Exit(1)
	}
	if config.Timing {
		fmt.Fprintf(os.Stderr, "Fragmented key generation took: %v\n", elapsed)
	}

	for i := 0; i < k; i++ {
		writeFile(fmt.Sprintf("%s.pk.%d", outPrefix, i), kem.SerializePublicKey(&fpk.Fragments[i]))
		writeFile(fmt.Sprintf("%s.sk.%d", outPrefix, i), kem.SerializeSecretKey(&fsk.Fragments[i]))
	}
	fsk.Zeroize()
	fmt.Printf("Wrote %d component key pairs with prefix %s\n", k, outPrefix)
}

func cmdEncapsulate(args []string) {
	config := parseConfig(args)
	pkFile := getArg(args, "--public-key", "-pk")
	outPrefix := getArg(args, "--output", "-o")
	if pkFile == "" {
		fmt.Fprintln(os.Stderr, "Error: --public-key is required")
		os.Exit(1)
	}

	if kStr := getArg(args, "--fragments", "-k"); kStr != "" {
		k, err := strconv.Atoi(kStr)
		if err != nil || k < 1 {
			fmt.Fprintf(os.Stderr, "Invalid fragment count: %s\n", kStr)
			os.Exit(1)
		}
		fragmentedEncapsulate(config, k, pkFile, outPrefix)
		return
	}

	pk, err := kem.ParsePublicKey(config.Params, readFile(pkFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing public key: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()
	res, err := kem.Encapsulate(pk)
	elapsed := time.Since(start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encapsulating: %v\n", err)
		os.Exit(1)
	}
	if config.Timing {
		fmt.Fprintf(os.Stderr, "Encapsulation took: %v\n", elapsed)
	}

	ctBytes := kem.SerializeCiphertext(config.Params, &res.Ciphertext)
	if outPrefix != "" {
		writeFile(outPrefix+".ct", ctBytes)
		fmt.Printf("Wrote %s.ct (%d bytes)\n", outPrefix, len(ctBytes))
	} else {
		fmt.Printf("ciphertext:    %s\n", encodeBytes(ctBytes, config.OutputFormat))
	}
	fmt.Printf("shared_secret: %s\n", encodeBytes(res.SharedSecret, config.OutputFormat))
}

// fragmentedEncapsulate reads pkPrefix.pk.0..k-1 and writes outPrefix.ct.0..k-1
// plus the combined shared secret.
func fragmentedEncapsulate(config CLIConfig, k int, pkPrefix, outPrefix string) {
	if outPrefix == "" {
		fmt.Fprintln(os.Stderr, "Error: --output is required for fragmented encapsulation")
		os.Exit(1)
	}

	pks := make([]topayz512.PublicKey, k)
	for i := 0; i < k; i++ {
		pk, err := kem.ParsePublicKey(config.Params, readFile(fmt.Sprintf("%s.pk.%d", pkPrefix, i)))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing component public key %d: %v\n", i, err)
			os.Exit(1)
		}
		pks[i] = *pk
	}
	fpk, err := fragment.NewFragmentedPublicKey(config.Params, pks)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()
	fct, secret, err := fragment.Encapsulate(fpk)
	elapsed := time.Since(start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encapsulating: %v\n", err)
		os.Exit(1)
	}
	if config.Timing {
		fmt.Fprintf(os.Stderr, "Fragmented encapsulation took: %v\n", elapsed)
	}

	for i := 0; i < k; i++ {
		writeFile(fmt.Sprintf("%s.ct.%d", outPrefix, i), kem.SerializeCiphertext(config.Params, &fct.Fragments[i]))
	}
	fmt.Printf("Wrote %d component ciphertexts with prefix %s\n", k, outPrefix)
	fmt.Printf("shared_secret: %s\n", encodeBytes(secret, config.OutputFormat))
}

func cmdDecapsulate(args []string) {
	config := parseConfig(args)
	skFile := getArg(args, "--secret-key", "-sk")
	ctFile := getArg(args, "--ciphertext", "-ct")
	if skFile == "" || ctFile == "" {
		fmt.Fprintln(os.Stderr, "Error: --secret-key and --ciphertext are required")
		os.Exit(1)
	}

	if kStr := getArg(args, "--fragments", "-k"); kStr != "" {
		k, err := strconv.Atoi(kStr)
		if err != nil || k < 1 {
			fmt.Fprintf(os.Stderr, "Invalid fragment count: %s\n", kStr)
			os.Exit(1)
		}
		fragmentedDecapsulate(config, k, skFile, ctFile)
		return
	}

	sk, err := kem.ParseSecretKey(config.Params, readFile(skFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing secret key: %v\n", err)
		os.Exit(1)
	}
	defer sk.Zeroize()

	ct, err := kem.ParseCiphertext(config.Params, readFile(ctFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing ciphertext: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()
	secret, err := kem.Decapsulate(sk, ct)
	elapsed := time.Since(start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decapsulating: %v\n", err)
		os.Exit(1)
	}
	if config.Timing {
		fmt.Fprintf(os.Stderr, "Decapsulation took: %v\n", elapsed)
	}

	fmt.Printf("shared_secret: %s\n", encodeBytes(secret, config.OutputFormat))
}

// fragmentedDecapsulate reads skPrefix.sk.0..k-1 and ctPrefix.ct.0..k-1 and
// prints the combined shared secret.
func fragmentedDecapsulate(config CLIConfig, k int, skPrefix, ctPrefix string) {
	sks := make([]topayz512.SecretKey, k)
	cts := make([]topayz512.Ciphertext, k)
	for i := 0; i < k; i++ {
		sk, err := kem.ParseSecretKey(config.Params, readFile(fmt.Sprintf("%s.sk.%d", skPrefix, i)))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing component secret key %d: %v\n", i, err)
			os.Exit(1)
		}
		ct, err := kem.ParseCiphertext(config.Params, readFile(fmt.Sprintf("%s.ct.%d", ctPrefix, i)))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing component ciphertext %d: %v\n", i, err)
			os.Exit(1)
		}
		sks[i] = *sk
		cts[i] = *ct
	}

	fsk, err := fragment.NewFragmentedSecretKey(config.Params, sks)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer fsk.Zeroize()
	fct, err := fragment.NewFragmentedCiphertext(config.Params, cts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()
	secret, err := fragment.Decapsulate(fsk, fct)
	elapsed := time.Since(start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decapsulating: %v\n", err)
		os.Exit(1)
	}
	if config.Timing {
		fmt.Fprintf(os.Stderr, "Fragmented decapsulation took: %v\n", elapsed)
	}

	fmt.Printf("shared_secret: %s\n", encodeBytes(secret, config.OutputFormat))
}

func cmdFragment(args []string) {
	config := parseConfig(args)
	inFile := getArg(args, "--input", "-i")
	outPrefix := getArg(args, "--output", "-o")
	if inFile == "" || outPrefix == "" {
		fmt.Fprintln(os.Stderr, "Error: --input and --output are required")
		os.Exit(1)
	}

	start := time.Now()
	fragments, err := fragment.FragmentData(config.Params, readFile(inFile))
	elapsed := time.Since(start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fragmenting: %v\n", err)
		os.Exit(1)
	}
	if config.Timing {
		fmt.Fprintf(os.Stderr, "Fragmentation took: %v\n", elapsed)
	}

	for i := range fragments {
		name := fmt.Sprintf("%s.%d", outPrefix, i)
		writeFile(name, fragment.SerializeFragment(&fragments[i]))
		if config.Verbose {
			fmt.Fprintf(os.Stderr, "Wrote %s (%d payload bytes)\n", name, len(fragments[i].Data))
		}
	}
	fmt.Printf("Wrote %d fragments with prefix %s\n", len(fragments), outPrefix)
}

func cmdReconstruct(args []string) {
	config := parseConfig(args)
	inPrefix := getArg(args, "--input", "-i")
	countStr := getArg(args, "--count", "-c")
	outFile := getArg(args, "--output", "-o")
	if inPrefix == "" || countStr == "" || outFile == "" {
		fmt.Fprintln(os.Stderr, "Error: --input, --count, and --output are required")
		os.Exit(1)
	}
	count, err := strconv.Atoi(countStr)
	if err != nil || count < 1 {
		fmt.Fprintf(os.Stderr, "Invalid fragment count: %s\n", countStr)
		os.Exit(1)
	}

	fragments := make([]topayz512.Fragment, count)
	for i := 0; i < count; i++ {
		f, err := fragment.ParseFragment(readFile(fmt.Sprintf("%s.%d", inPrefix, i)))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing fragment %d: %v\n", i, err)
			os.Exit(1)
		}
		fragments[i] = *f
	}

	start := time.Now()
	data, err := fragment.ReconstructData(fragments)
	elapsed := time.Since(start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reconstructing: %v\n", err)
		os.Exit(1)
	}
	if config.Timing {
		fmt.Fprintf(os.Stderr, "Reconstruction took: %v\n", elapsed)
	}

	writeFile(outFile, data)
	fmt.Printf("Wrote %s (%d bytes)\n", outFile, len(data))
}

func parseConfig(args []string) CLIConfig {
	config := CLIConfig{
		Params:       core.Z512Params,
		OutputFormat: FormatHex,
	}

	switch format := getArg(args, "--format", "-f"); format {
	case "", "hex":
		config.OutputFormat = FormatHex
	case "base64":
		config.OutputFormat = FormatBase64
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid format '%s'. Must be one of: hex, base64\n", format)
		os.Exit(1)
	}

	config.Verbose = hasFlag(args, "--verbose", "-v")
	config.Timing = hasFlag(args, "--timing", "-t")
	return config
}

func getArg(args []string, long, short string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == long || args[i] == short {
			return args[i+1]
		}
	}
	return ""
}

func hasFlag(args []string, long, short string) bool {
	for _, arg := range args {
		if arg == long || arg == short {
			return true
		}
	}
	return false
}

func encodeBytes(data []byte, format OutputFormat) string {
	if format == FormatBase64 {
		return base64.StdEncoding.EncodeToString(data)
	}
	return hex.EncodeToString(data)
}

func readFile(name string) []byte {
	data, err := os.ReadFile(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", name, err)
		os.Exit(1)
	}
	return data
}

func writeFile(name string, data []byte) {
	if err := os.WriteFile(name, data, 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", name, err)
		os.Exit(1)
	}
}
