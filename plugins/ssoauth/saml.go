package ssoauth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/xml"
	"fmt"
	"math/big"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/crewjam/saml"
	"github.com/crewjam/saml/samlsp"
	"github.com/gin-gonic/gin"

	"github.com/krema-build/krema/internal/errors"
)

type samlResult struct {
	attributes samlsp.Attributes
	err        error
}

// startSamlLogin builds a SAML Service Provider and runs a loopback
// Assertion Consumer Service for it (spec: "builds a SAML AuthnRequest,
// runs a loopback ACS"), grounded in the teacher's SAMLAuthenticator
// (api/internal/auth/saml.go): samlsp.New builds the middleware from an
// EntityID/URL/Key/Certificate/IDPMetadata, and the authenticated session's
// attributes are recovered the same way the teacher's GinMiddleware does —
// middleware.Session.GetSession then a type-assertion to
// samlsp.SessionWithAttributes. Unlike the teacher's long-lived server,
// which holds one signing keypair for the app's whole lifetime, this
// generates a fresh keypair per login attempt — there's no persistent SP
// identity to maintain across runs of a desktop app.
func (p *Plugin) startSamlLogin(ctx context.Context, args map[string]any) (any, error) {
	entityID, _ := args["entityId"].(string)
	metadataURL, _ := args["metadataUrl"].(string)
	metadataXML, _ := args["metadataXml"].(string)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, errors.Wrap(errors.IO, "bind saml loopback listener", err)
	}
	rootURL, err := url.Parse(fmt.Sprintf("http://%s/", listener.Addr().String()))
	if err != nil {
		return nil, errors.Wrap(errors.BadRequest, "parse saml loopback root url", err)
	}

	idpMetadata, err := loadIdpMetadata(ctx, metadataURL, metadataXML)
	if err != nil {
		return nil, err
	}

	key, cert, err := generateEphemeralSigningCert()
	if err != nil {
		return nil, errors.Wrap(errors.HandlerFault, "generate saml signing certificate", err)
	}

	middleware, err := samlsp.New(samlsp.Options{
		EntityID:    entityID,
		URL:         *rootURL,
		Key:         key,
		Certificate: cert,
		IDPMetadata: idpMetadata,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid, "create saml middleware", err)
	}

	resultCh := make(chan samlResult, 1)
	protected := middleware.RequireAccount(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := middleware.Session.GetSession(r)
		if err != nil || session == nil {
			resultCh <- samlResult{err: errors.E(errors.HandlerFault, "saml session missing after assertion consumer round trip")}
			fmt.Fprint(w, "Authentication failed, you may close this window.")
			return
		}
		withAttrs, ok := session.(samlsp.SessionWithAttributes)
		if !ok {
			resultCh <- samlResult{err: errors.E(errors.HandlerFault, "saml session carries no attributes")}
			fmt.Fprint(w, "Authentication failed, you may close this window.")
			return
		}
		resultCh <- samlResult{attributes: withAttrs.GetAttributes()}
		fmt.Fprint(w, "Authentication complete, you may close this window.")
	}))

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Any("/saml/*action", gin.WrapH(middleware))
	engine.GET("/", gin.WrapH(protected))
	srv := &http.Server{Handler: engine}
	go srv.Serve(listener)
	defer srv.Close()

	if err := browserOpen(ctx, rootURL.String()); err != nil {
		return nil, err
	}

	select {
	case result := <-resultCh:
		if result.err != nil {
			return nil, result.err
		}
		claims := make(map[string]any, len(result.attributes))
		for name, values := range result.attributes {
			if len(values) > 0 {
				claims[name] = values[0]
			}
		}
		if err := p.cacheSessionToken("saml", entityID); err != nil {
			return nil, err
		}
		return map[string]any{"attributes": claims}, nil
	case <-time.After(loginTimeout):
		return nil, errors.E(errors.Timeout, "saml login timed out waiting for browser redirect")
	case <-ctx.Done():
		return nil, errors.E(errors.Timeout, "saml login canceled")
	}
}

// loadIdpMetadata fetches the IdP's metadata document, preferring an
// inline XML blob (no network dependency, the teacher's "air-gapped
// deployments" path) over a metadata URL fetch.
func loadIdpMetadata(ctx context.Context, metadataURL, metadataXML string) (*saml.EntityDescriptor, error) {
	if metadataXML != "" {
		var descriptor saml.EntityDescriptor
		if err := xml.Unmarshal([]byte(metadataXML), &descriptor); err != nil {
			return nil, errors.Wrap(errors.SerializationError, "parse saml idp metadata xml", err)
		}
		return &descriptor, nil
	}
	if metadataURL == "" {
		return nil, errors.E(errors.BadRequest, "either metadataUrl or metadataXml is required")
	}
	parsed, err := url.Parse(metadataURL)
	if err != nil {
		return nil, errors.Wrap(errors.BadRequest, "parse saml metadata url", err)
	}
	descriptor, err := samlsp.FetchMetadata(ctx, http.DefaultClient, *parsed)
	if err != nil {
		return nil, errors.Wrap(errors.TransientSystem, "fetch saml idp metadata", err)
	}
	return descriptor, nil
}

// generateEphemeralSigningCert creates a short-lived self-signed keypair
// to sign this session's AuthnRequests. A server-side SP keeps one keypair
// for its whole lifetime so the IdP can pin its certificate; a desktop
// plugin re-registering with the IdP on every login has no such continuity
// requirement.
func generateEphemeralSigningCert() (*rsa.PrivateKey, *x509.Certificate, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, nil, err
	}

	template := &x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		Subject:      pkix.Name{CommonName: "krema-ssoauth"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		return nil, nil, err
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, nil, err
	}
	return key, cert, nil
}
