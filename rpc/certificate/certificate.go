// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package certificate

import (
	"crypto/tls"
	"io/ioutil"
	"os"
	"time"

	"github.com/bitmark-inc/certgen"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/logger"
)

// validity of a generated certificate
const validity = 10 * 365 * 24 * time.Hour

// Get - verify that a certificate and key are a valid pair and
// return the TLS configuration and certificate fingerprint
func Get(log *logger.L, name, certificate, key string) (*tls.Config, [32]byte, error) {
	var fin [32]byte

	keyPair, err := tls.X509KeyPair([]byte(certificate), []byte(key))
	if err != nil {
		log.Errorf("%s failed to load keypair: %v", name, err)
		return nil, fin, err
	}

	tlsConfiguration := &tls.Config{
		Certificates: []tls.Certificate{
			keyPair,
		},
	}

	fin = Fingerprint(keyPair.Certificate[0])

	return tlsConfiguration, fin, nil
}

// Load - read PEM files and call Get
func Load(log *logger.L, name, certificateFileName, keyFileName string) (*tls.Config, [32]byte, error) {
	var fin [32]byte

	certificate, err := ioutil.ReadFile(certificateFileName)
	if nil != err {
		log.Errorf("%s certificate: %q  error: %s", name, certificateFileName, err)
		return nil, fin, err
	}
	key, err := ioutil.ReadFile(keyFileName)
	if nil != err {
		log.Errorf("%s private key: %q  error: %s", name, keyFileName, err)
		return nil, fin, err
	}
	return Get(log, name, string(certificate), string(key))
}

// Generate - create a self-signed PEM certificate and key
//
// extraHosts are added to the certificate alongside the local
// host names and addresses
func Generate(name string, extraHosts []string) (string, string, error) {
	org := "escrowd self signed cert for: " + name
	validUntil := time.Now().Add(validity)
	cert, key, err := certgen.NewTLSCertPair(org, validUntil, false, extraHosts)
	if nil != err {
		return "", "", err
	}
	return string(cert), string(key), nil
}

// Create - write a new self-signed certificate and key, neither
// file may already exist
func Create(name string, certificateFileName string, keyFileName string, extraHosts []string) error {

	if _, err := os.Stat(certificateFileName); nil == err {
		return fault.CertificateFileAlreadyExists
	}
	if _, err := os.Stat(keyFileName); nil == err {
		return fault.KeyFileAlreadyExists
	}

	cert, key, err := Generate(name, extraHosts)
	if nil != err {
		return err
	}

	if err := ioutil.WriteFile(certificateFileName, []byte(cert), 0666); nil != err {
		return err
	}
	if err := ioutil.WriteFile(keyFileName, []byte(key), 0600); nil != err {
		_ = os.Remove(certificateFileName)
		return err
	}
	return nil
}

// Fingerprint - compute the fingerprint of a certificate
//
// FreeBSD: openssl x509 -outform DER -in escrowd-rpc.crt | sha3sum -a 256
func Fingerprint(certificate []byte) [32]byte {
	return sha3.Sum256(certificate)
}
