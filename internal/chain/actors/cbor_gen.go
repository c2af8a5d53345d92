package actors

import (
	"fmt"
	"io"

	cbg "github.com/whyrusleeping/cbor-gen"
	"golang.org/x/xerrors"
)

var lengthBufTransferParams = []byte{130}

func (t *TransferParams) MarshalCBOR(w io.Writer) error {
	if t == nil {
		_, err := w.Write(cbg.CborNull)
		return err
	}

	cw := cbg.NewCborWriter(w)

	if _, err := cw.Write(lengthBufTransferParams); err != nil {
		return err
	}

	if err := t.To.MarshalCBOR(cw); err != nil {
		return err
	}

	if err := t.Amount.MarshalCBOR(cw); err != nil {
		return err
	}
	return nil
}

func (t *TransferParams) UnmarshalCBOR(r io.Reader) (err error) {
	*t = TransferParams{}

	cr := cbg.NewCborReader(r)

	maj, extra, err := cr.ReadHeader()
	if err != nil {
		return err
	}
	defer func() {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
	}()

	if maj != cbg.MajArray {
		return fmt.Errorf("cbor input should be of type array")
	}

	if extra != 2 {
		return fmt.Errorf("cbor input had wrong number of fields")
	}

	{
		if err := t.To.UnmarshalCBOR(cr); err != nil {
			return xerrors.Errorf("unmarshaling t.To: %w", err)
		}
	}

	{
		if err := t.Amount.UnmarshalCBOR(cr); err != nil {
			return xerrors.Errorf("unmarshaling t.Amount: %w", err)
		}
	}
	return nil
}

var lengthBufCreateWalletParams = []byte{130}

func (t *CreateWalletParams) MarshalCBOR(w io.Writer) error {
	if t == nil {
		_, err := w.Write(cbg.CborNull)
		return err
	}

	cw := cbg.NewCborWriter(w)

	if _, err := cw.Write(lengthBufCreateWalletParams); err != nil {
		return err
	}

	if err := t.Beneficiary.MarshalCBOR(cw); err != nil {
		return err
	}

	if err := cw.WriteMajorTypeHeader(cbg.MajUnsignedInt, t.ScheduleID); err != nil {
		return err
	}
	return nil
}

func (t *CreateWalletParams) UnmarshalCBOR(r io.Reader) (err error) {
	*t = CreateWalletParams{}

	cr := cbg.NewCborReader(r)

	maj, extra, err := cr.ReadHeader()
	if err != nil {
		return err
	}
	defer func() {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
	}()

	if maj != cbg.MajArray {
		return fmt.Errorf("cbor input should be of type array")
	}

	if extra != 2 {
		return fmt.Errorf("cbor input had wrong number of fields")
	}

	{
		if err := t.Beneficiary.UnmarshalCBOR(cr); err != nil {
			return xerrors.Errorf("unmarshaling t.Beneficiary: %w", err)
		}
	}

	{
		maj, extra, err = cr.ReadHeader()
		if err != nil {
			return err
		}
		if maj != cbg.MajUnsignedInt {
			return fmt.Errorf("wrong type for uint64 field")
		}
		t.ScheduleID = extra
	}
	return nil
}

var lengthBufOwnerParams = []byte{129}

func (t *OwnerParams) MarshalCBOR(w io.Writer) error {
	if t == nil {
		_, err := w.Write(cbg.CborNull)
		return err
	}

	cw := cbg.NewCborWriter(w)

	if _, err := cw.Write(lengthBufOwnerParams); err != nil {
		return err
	}

	if err := t.NewOwner.MarshalCBOR(cw); err != nil {
		return err
	}
	return nil
}

func (t *OwnerParams) UnmarshalCBOR(r io.Reader) (err error) {
	*t = OwnerParams{}

	cr := cbg.NewCborReader(r)

	maj, extra, err := cr.ReadHeader()
	if err != nil {
		return err
	}
	defer func() {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
	}()

	if maj != cbg.MajArray {
		return fmt.Errorf("cbor input should be of type array")
	}

	if extra != 1 {
		return fmt.Errorf("cbor input had wrong number of fields")
	}

	{
		if err := t.NewOwner.UnmarshalCBOR(cr); err != nil {
			return xerrors.Errorf("unmarshaling t.NewOwner: %w", err)
		}
	}
	return nil
}
