/*
Token contract is a NEP-17 fungible token with time-locked transfers.

The whole supply is minted once at deployment to the owner account. Any holder
can move spendable tokens to another account either directly or into a lock
that matures at the given block timestamp. Locked tokens are not spendable
until maturity, after that they are moved into the spendable balance by the
first state-changing call touching the account. Read-only methods count
matured locks without persisting anything.

Holders can allow other accounts to spend their tokens with approve,
increaseApproval and decreaseApproval methods, the approved amount is then
spent with transferFrom.

Every method either completes fully or fails with an exception, there are no
partial effects.

Contract notifications

Transfer notification. This is NEP-17 standard notification. It is produced on
deployment (with null sender), on every transfer and on every locked transfer
even if lock is not mature yet.

  Transfer:
    - name: from
      type: Hash160
    - name: to
      type: Hash160
    - name: amount
      type: Integer

Approval notification. It is produced when allowance changes, amount is the
resulting allowance of the spender.

  Approval:
    - name: owner
      type: Hash160
    - name: spender
      type: Hash160
    - name: amount
      type: Integer

Contract storage scheme

Token metadata is stored by "name", "symbol", "decimals" and "totalSupply"
keys. Spendable balance of every holder is stored by 'b' prefixed holder
script hash. Allowance is stored by 'a' prefixed pair of owner and spender
script hashes and is removed when reaches zero. Every pending lock is stored
by 'l' prefixed holder script hash followed by maturity timestamp and contains
serialized Lock structure.
*/
package token
