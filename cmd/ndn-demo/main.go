// Command ndn-demo exercises the packet pipeline end to end: build a Data
// packet, sign it with a chosen suite, encode, decode, and verify. Signing
// keys are resolved from a bbolt-backed keystore.
//
// Grounded on node/main.go's flat command-dispatch switch and
// node/keymgr.go's flag.NewFlagSet-per-subcommand style.
package main

import (
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"ndnlite.dev/lite/cryptobackend"
	"ndnlite.dev/lite/keystore"
	"ndnlite.dev/lite/ndnname"
	"ndnlite.dev/lite/packet"
)

const usageCommands = "commands: version | keygen --keystore <path> --suite <hmac|ecdsa> --key-locator <name> | sign --suite <digest|hmac|ecdsa> --name <name> --content <text> [--keystore <path> --key-locator <name>] | verify --suite <digest|hmac|ecdsa> --in-hex <hex> [--keystore <path> --key-locator <name>]"

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: ndn-demo <command> [args]")
	fmt.Fprintln(os.Stderr, usageCommands)
}

func cmdVersionMain() int {
	fmt.Println("ndn-demo: scaffold v1")
	return 0
}

func cmdKeygenMain(argv []string) int {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	ksPath := fs.String("keystore", "", "bbolt keystore path")
	suite := fs.String("suite", "", "hmac | ecdsa")
	locatorStr := fs.String("key-locator", "", "key locator name, e.g. /key/alice")
	_ = fs.Parse(argv)
	if *ksPath == "" || *locatorStr == "" {
		fmt.Fprintln(os.Stderr, "missing required flags: --keystore --key-locator")
		return 2
	}
	locator, err := ndnname.FromString(*locatorStr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "key-locator:", err)
		return 2
	}
	ks, err := keystore.Open(*ksPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "keygen error:", err)
		return 1
	}
	defer func() { _ = ks.Close() }()

	switch *suite {
	case "hmac":
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			fmt.Fprintln(os.Stderr, "keygen error:", err)
			return 1
		}
		if err := ks.PutHMACKey(locator, key); err != nil {
			fmt.Fprintln(os.Stderr, "keygen error:", err)
			return 1
		}
	case "ecdsa":
		if _, err := ks.GenerateECDSAKey(locator, rand.Reader); err != nil {
			fmt.Fprintln(os.Stderr, "keygen error:", err)
			return 1
		}
	default:
		fmt.Fprintln(os.Stderr, "--suite must be hmac or ecdsa")
		return 2
	}
	fmt.Println("OK")
	return 0
}

func cmdSignMain(argv []string) int {
	fs := flag.NewFlagSet("sign", flag.ExitOnError)
	suite := fs.String("suite", "", "digest | hmac | ecdsa")
	nameStr := fs.String("name", "", "data name, e.g. /a/b")
	content := fs.String("content", "", "content payload")
	ksPath := fs.String("keystore", "", "bbolt keystore path (hmac/ecdsa)")
	locatorStr := fs.String("key-locator", "", "key locator name (hmac/ecdsa)")
	_ = fs.Parse(argv)
	if *nameStr == "" {
		fmt.Fprintln(os.Stderr, "missing required flag: --name")
		return 2
	}

	name, err := ndnname.FromString(*nameStr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "name:", err)
		return 2
	}
	d := packet.NewData(name)
	if err := d.SetContent([]byte(*content)); err != nil {
		fmt.Fprintln(os.Stderr, "sign error:", err)
		return 1
	}

	backend := cryptobackend.StdSuite{}
	buf := make([]byte, packet.ContentBufferSize+512)

	var wire []byte
	switch *suite {
	case "digest":
		wire, err = packet.EncodeDigest(buf, d, backend)
	case "hmac":
		locator, key, kerr := resolveHMACKey(*ksPath, *locatorStr)
		if kerr != nil {
			fmt.Fprintln(os.Stderr, "sign error:", kerr)
			return 1
		}
		d.Signature.KeyLocator = locator
		wire, err = packet.EncodeHMAC(buf, d, backend, key)
	case "ecdsa":
		locator, priv, kerr := resolveECDSAKey(*ksPath, *locatorStr)
		if kerr != nil {
			fmt.Fprintln(os.Stderr, "sign error:", kerr)
			return 1
		}
		d.Signature.KeyLocator = locator
		wire, err = packet.EncodeECDSA(buf, d, backend, priv)
	default:
		fmt.Fprintln(os.Stderr, "--suite must be digest, hmac, or ecdsa")
		return 2
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "sign error:", err)
		return 1
	}
	fmt.Println(hex.EncodeToString(wire))
	return 0
}

func resolveHMACKey(ksPath, locatorStr string) (ndnname.Name, []byte, error) {
	if ksPath == "" || locatorStr == "" {
		return ndnname.Name{}, nil, fmt.Errorf("hmac signing requires --keystore and --key-locator")
	}
	locator, err := ndnname.FromString(locatorStr)
	if err != nil {
		return ndnname.Name{}, nil, err
	}
	ks, err := keystore.Open(ksPath)
	if err != nil {
		return ndnname.Name{}, nil, err
	}
	defer func() { _ = ks.Close() }()
	key, ok, err := ks.GetHMACKey(locator)
	if err != nil {
		return ndnname.Name{}, nil, err
	}
	if !ok {
		return ndnname.Name{}, nil, fmt.Errorf("no hmac key stored under %s", locator.String())
	}
	return locator, key, nil
}

func resolveECDSAKey(ksPath, locatorStr string) (ndnname.Name, *ecdsa.PrivateKey, error) {
	if ksPath == "" || locatorStr == "" {
		return ndnname.Name{}, nil, fmt.Errorf("ecdsa signing requires --keystore and --key-locator")
	}
	locator, err := ndnname.FromString(locatorStr)
	if err != nil {
		return ndnname.Name{}, nil, err
	}
	ks, err := keystore.Open(ksPath)
	if err != nil {
		return ndnname.Name{}, nil, err
	}
	defer func() { _ = ks.Close() }()
	priv, ok, err := ks.GetECDSAPrivateKey(locator)
	if err != nil {
		return ndnname.Name{}, nil, err
	}
	if !ok {
		return ndnname.Name{}, nil, fmt.Errorf("no ecdsa key stored under %s", locator.String())
	}
	return locator, priv, nil
}

func cmdVerifyMain(argv []string) int {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	suite := fs.String("suite", "", "digest | hmac | ecdsa")
	inHex := fs.String("in-hex", "", "wire bytes, hex encoded")
	ksPath := fs.String("keystore", "", "bbolt keystore path (hmac/ecdsa)")
	locatorStr := fs.String("key-locator", "", "key locator name (hmac/ecdsa)")
	_ = fs.Parse(argv)
	if *inHex == "" {
		fmt.Fprintln(os.Stderr, "missing required flag: --in-hex")
		return 2
	}
	wire, err := hex.DecodeString(*inHex)
	if err != nil {
		fmt.Fprintln(os.Stderr, "in-hex:", err)
		return 2
	}

	d, s, e, err := packet.Decode(wire)
	if err != nil {
		fmt.Fprintln(os.Stderr, "decode error:", err)
		return 1
	}

	backend := cryptobackend.StdSuite{}
	switch *suite {
	case "digest":
		err = packet.VerifyDigest(wire, d, s, e, backend)
	case "hmac":
		_, key, kerr := resolveHMACKey(*ksPath, *locatorStr)
		if kerr != nil {
			fmt.Fprintln(os.Stderr, "verify error:", kerr)
			return 1
		}
		err = packet.VerifyHMAC(wire, d, s, e, backend, key)
	case "ecdsa":
		_, priv, kerr := resolveECDSAKey(*ksPath, *locatorStr)
		if kerr != nil {
			fmt.Fprintln(os.Stderr, "verify error:", kerr)
			return 1
		}
		err = packet.VerifyECDSA(wire, d, s, e, backend, &priv.PublicKey)
	default:
		fmt.Fprintln(os.Stderr, "--suite must be digest, hmac, or ecdsa")
		return 2
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "verify error:", err)
		return 1
	}
	fmt.Printf("name=%s content=%q OK\n", d.Name.String(), d.Content[:d.ContentSize])
	return 0
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	command := os.Args[1]
	argv := os.Args[2:]
	exitCode := 0
	switch command {
	case "version":
		exitCode = cmdVersionMain()
	case "keygen":
		exitCode = cmdKeygenMain(argv)
	case "sign":
		exitCode = cmdSignMain(argv)
	case "verify":
		exitCode = cmdVerifyMain(argv)
	default:
		fmt.Fprintln(os.Stderr, "unknown command")
		printUsage()
		exitCode = 2
	}
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
